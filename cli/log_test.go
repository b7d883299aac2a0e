package cli

import (
	"testing"

	"github.com/ardnew/compose/log"
)

func TestLogConfig_Scan(t *testing.T) {
	defer log.SetDefault(log.Default())

	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			"separate values",
			[]string{"expand", "--log-level", "debug", "--log-format", "json"},
			logConfig{Level: "debug", Format: "json", Pretty: true},
		},
		{
			"assigned values",
			[]string{"--log-level=warn", "--log-time-layout=kitchen", "--log-caller"},
			logConfig{Level: "warn", TimeLayout: "kitchen", Caller: true, Pretty: true},
		},
		{
			"negated",
			[]string{"--no-log-pretty", "--log-caller=false"},
			logConfig{},
		},
		{
			"invalid boolean ignored",
			[]string{"--log-pretty=maybe"},
			logConfig{Pretty: true},
		},
		{
			"flag value not consumed",
			[]string{"--log-level", "--log-caller"},
			logConfig{Caller: true, Pretty: true},
		},
		{
			"stops at separator",
			[]string{"--", "--log-level=error", "--no-log-pretty"},
			logConfig{Pretty: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := logConfig{Pretty: true}
			got.scan(tt.args)

			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestLogConfig_Vars(t *testing.T) {
	vars := (&logConfig{}).vars()

	if vars["logLevelDefault"] != log.DefaultLevel.String() {
		t.Errorf("unexpected default level %q", vars["logLevelDefault"])
	}

	if vars["logFormatEnum"] != "json,text,pretty" {
		t.Errorf("unexpected format enum %q", vars["logFormatEnum"])
	}
}
