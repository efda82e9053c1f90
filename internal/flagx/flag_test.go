package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		names []string
		want  []string
	}{
		{
			name:  "short flag with separate value",
			args:  []string{"-d", "postgres://x", "-a", ":8000"},
			names: []string{"d"},
			want:  []string{"-d", "postgres://x"},
		},
		{
			name:  "double dash with equals",
			args:  []string{"--config=alt.json", "-a", ":8000"},
			names: []string{"config"},
			want:  []string{"--config=alt.json"},
		},
		{
			name:  "names may be given with dashes",
			args:  []string{"-c", "conf.json"},
			names: []string{"-c"},
			want:  []string{"-c", "conf.json"},
		},
		{
			name:  "unknown flags and positionals ignored",
			args:  []string{"profile", "add", "bob", "--share", "25"},
			names: []string{"d", "c"},
			want:  []string{},
		},
		{
			name:  "flag without value at end is kept",
			args:  []string{"-debug"},
			names: []string{"debug"},
			want:  []string{"-debug"},
		},
		{
			name:  "next dash token is not a value",
			args:  []string{"-c", "-d", "dsn"},
			names: []string{"c", "d"},
			want:  []string{"-c", "-d", "dsn"},
		},
		{
			name:  "bare dashes are skipped",
			args:  []string{"--", "-", "-d", "x"},
			names: []string{"d"},
			want:  []string{"-d", "x"},
		},
		{
			name:  "repeated flag preserved in order",
			args:  []string{"-c", "one.json", "--c", "two.json"},
			names: []string{"c"},
			want:  []string{"-c", "one.json", "--c", "two.json"},
		},
		{
			name:  "empty args",
			args:  []string{},
			names: []string{"c"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.names))
		})
	}
}

func TestConfigFile(t *testing.T) {
	t.Run("short -c", func(t *testing.T) {
		assert.Equal(t, "/etc/ulm.json", ConfigFile([]string{"-c", "/etc/ulm.json"}))
	})

	t.Run("long --config=", func(t *testing.T) {
		assert.Equal(t, "/etc/ulm.json", ConfigFile([]string{"serve", "--config=/etc/ulm.json"}))
	})

	t.Run("absent", func(t *testing.T) {
		assert.Empty(t, ConfigFile([]string{"-d", "dsn"}))
	})

	t.Run("last wins", func(t *testing.T) {
		assert.Equal(t, "2.json", ConfigFile([]string{"-c", "1.json", "-config", "2.json"}))
	})
}
