package db

import "testing"

func TestParseDatabaseName(t *testing.T) {
	tests := []struct {
		dsn     string
		want    string
		wantErr bool
	}{
		{dsn: "user:pass@tcp(localhost:3306)/shop", want: "shop"},
		{dsn: "user@tcp(db:3306)/app?parseTime=true", want: "app"},
		{dsn: "user:pass@tcp(localhost:3306)/", wantErr: true},
		{dsn: "not a dsn", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			got, err := ParseDatabaseName(tt.dsn)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got %q", got)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected database %s, got %s", tt.want, got)
			}
		})
	}
}
