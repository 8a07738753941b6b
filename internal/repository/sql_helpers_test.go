package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "raw pgconn unique violation",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "alumni_submissions_pkey"},
			want: true,
		},
		{
			name: "wrapped pgconn unique violation",
			err:  fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}),
			want: true,
		},
		{
			name: "translated gorm duplicate key",
			err:  gorm.ErrDuplicatedKey,
			want: true,
		},
		{
			name: "wrapped gorm duplicate key",
			err:  fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey),
			want: true,
		},
		{
			name: "other pg error",
			err:  &pgconn.PgError{Code: "23503"},
			want: false,
		},
		{
			name: "unrelated error",
			err:  errors.New("connection refused"),
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}
