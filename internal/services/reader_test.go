package services

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/bookseed/pkg/bookseed"
)

func TestReadTable_RejectsUnknownTable(t *testing.T) {
	db := newFakeDB()

	_, err := ReadTable(context.Background(), db, "pg_shadow")
	require.Error(t, err)
	assert.ErrorIs(t, err, bookseed.ErrUnknownTable)
	assert.Empty(t, db.committed)
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"null", nil, ""},
		{"text", "SQL Cookbook", "SQL Cookbook"},
		{"int32", int32(595), "595"},
		{"int64", int64(7), "7"},
		{"date", time.Date(2005, 12, 1, 0, 0, 0, 0, time.UTC), "2005-12-01"},
		{"numeric", pgtype.Numeric{Int: big.NewInt(417), Exp: -2, Valid: true}, "4.17"},
		{"null numeric", pgtype.Numeric{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatCell(tt.in))
		})
	}
}
