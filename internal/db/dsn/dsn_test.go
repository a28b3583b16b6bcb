package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restopos/restopos/internal/config"
)

func TestCreate(t *testing.T) {
	testCases := []struct {
		name     string
		db       config.DB
		expected string
		wantErr  error
	}{
		{
			name: "mysql with extras",
			db: config.DB{
				GormEngine: config.EngineMySQL, User: "pos", Password: "pw", Host: "db", Port: 3306,
				Name: "restopos", Extras: "parseTime=True",
			},
			expected: "pos:pw@tcp(db:3306)/restopos?parseTime=True",
		},
		{
			name: "mysql without extras",
			db: config.DB{
				GormEngine: config.EngineMySQL, User: "pos", Password: "pw", Host: "db", Port: 3306, Name: "restopos",
			},
			expected: "pos:pw@tcp(db:3306)/restopos",
		},
		{
			name: "postgres",
			db: config.DB{
				GormEngine: config.EnginePostgres, User: "pos", Password: "p@ss", Host: "db", Port: 5432,
				Name: "restopos", Extras: "sslmode=disable",
			},
			expected: "postgres://pos:p%40ss@db:5432/restopos?sslmode=disable",
		},
		{
			name:     "sqlite file",
			db:       config.DB{GormEngine: config.EngineSQLite, Name: "restopos.db"},
			expected: "restopos.db?_pragma=foreign_keys(1)",
		},
		{
			name:     "sqlite memory with extras",
			db:       config.DB{GormEngine: config.EngineSQLite, Name: "file::memory:?cache=shared", Extras: "_txlock=immediate"},
			expected: "file::memory:?cache=shared&_pragma=foreign_keys(1)&_txlock=immediate",
		},
		{
			name:    "unknown engine",
			db:      config.DB{GormEngine: "oracle"},
			wantErr: config.ErrUnsupportedGormEngine,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Create(tc.db)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}
