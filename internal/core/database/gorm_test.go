package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMySQLDSN(t *testing.T) {
	cases := []struct {
		name, in, user, pass, want string
	}{
		{
			name: "native dsn untouched",
			in:   "root:pw@tcp(db:3306)/salon?parseTime=true",
			want: "root:pw@tcp(db:3306)/salon?parseTime=true",
		},
		{
			name: "jdbc url",
			in:   "jdbc:mysql://db:3306/salon?useUnicode=true&characterEncoding=utf8&useSSL=false",
			user: "app", pass: "s3",
			want: "app:s3@tcp(db:3306)/salon?charset=utf8&parseTime=true&tls=false",
		},
		{
			name: "credentials from query",
			in:   "mysql://db/salon?user=u&password=p&serverTimezone=UTC",
			want: "u:p@tcp(db)/salon?charset=utf8mb4&loc=UTC&parseTime=true",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeMySQLDSN(tc.in, tc.user, tc.pass))
		})
	}
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "root:****@tcp(db)/x", maskDSN("root:secret@tcp(db)/x"))
	assert.Equal(t, "file::memory:", maskDSN("file::memory:"))
}

func TestNewGormUnsupported(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle"})
	require.ErrorIs(t, err, ErrUnsupportedDriver)
}
