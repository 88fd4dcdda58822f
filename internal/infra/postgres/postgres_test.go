package postgres

import (
	"testing"

	"github.com/sifan077/tinyurl/config"
)

func TestConnString(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.PostgresConfig
		want string
	}{
		{
			name: "defaults",
			cfg:  config.PostgresConfig{User: "app", Database: "links"},
			want: "postgres://app@localhost:5432/links?sslmode=disable",
		},
		{
			name: "escaped credentials",
			cfg: config.PostgresConfig{
				Host:     "db",
				Port:     6543,
				User:     "app",
				Password: "p@ss/word",
				Database: "links",
				SSLMode:  "require",
			},
			want: "postgres://app:p@ss%2Fword@db:6543/links?sslmode=require",
		},
		{
			name: "url wins",
			cfg:  config.PostgresConfig{URL: "postgres://u:p@h:1/d", Host: "ignored"},
			want: "postgres://u:p@h:1/d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConnString(tt.cfg); got != tt.want {
				t.Fatalf("ConnString() = %q, want %q", got, tt.want)
			}
		})
	}
}
