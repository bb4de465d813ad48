package utils

import (
	"testing"
	"time"
)

func TestGetEnvAsDuration(t *testing.T) {
	cases := []struct {
		name  string
		value string
		set   bool
		want  time.Duration
	}{
		{"unset uses default", "", false, time.Hour},
		{"duration syntax", "30m", true, 30 * time.Minute},
		{"bare seconds", "7200", true, 2 * time.Hour},
		{"garbage uses default", "soon", true, time.Hour},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.set {
				t.Setenv("SOME_TTL", tc.value)
			}
			if got := GetEnvAsDuration("SOME_TTL", time.Hour, nil); got != tc.want {
				t.Fatalf("GetEnvAsDuration(%q) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("SOME_COUNT", "42")
	if got := GetEnvAsInt("SOME_COUNT", 7, nil); got != 42 {
		t.Fatalf("GetEnvAsInt = %d, want 42", got)
	}
	t.Setenv("SOME_COUNT", "many")
	if got := GetEnvAsInt("SOME_COUNT", 7, nil); got != 7 {
		t.Fatalf("GetEnvAsInt with bad value = %d, want default 7", got)
	}
}
