package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-http", ":8080"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"--config=alt.json", "-http", ":8080"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=alt.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag without value at end",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "dash-prefixed token is not a value",
			args:         []string{"-c", "-notvalue"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "several allowed flags keep order",
			args:         []string{"-store", "sqlite", "-c", "conf.json", "--other", "x"},
			allowedFlags: []string{"-c", "-store"},
			want:         []string{"-store", "sqlite", "-c", "conf.json"},
		},
		{
			name:         "repeated flag preserved",
			args:         []string{"-c", "one.json", "-c", "two.json"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "one.json", "-c", "two.json"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-c", "/path/short.json"}
	assert.Equal(t, "/path/short.json", JsonConfigFlags())

	os.Args = []string{"testbin", "-config", "/path/long.json"}
	assert.Equal(t, "/path/long.json", JsonConfigFlags())
}

func TestJsonConfigFlagsFrom(t *testing.T) {
	assert.Empty(t, JsonConfigFlagsFrom([]string{"-x", "1"}))
	assert.Equal(t, "/p/2.json", JsonConfigFlagsFrom([]string{"-c", "/p/1.json", "-config", "/p/2.json"}))
	assert.Equal(t, "/p/3.json", JsonConfigFlagsFrom([]string{"--config=/p/3.json"}))
}

func TestEnvFileFlag(t *testing.T) {
	assert.Equal(t, "prod.env", EnvFileFlag([]string{"-http", ":1", "-env-file", "prod.env"}))
	assert.Empty(t, EnvFileFlag([]string{"-http", ":1"}))
}
