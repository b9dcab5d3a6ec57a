package cli

import "testing"

func TestLogConfigScan(t *testing.T) {
	tests := []struct {
		name  string
		start logConfig
		args  []string
		want  logConfig
	}{
		{
			name: "level attached",
			args: []string{"--log-level=debug"},
			want: logConfig{Level: "debug"},
		},
		{
			name: "level separate",
			args: []string{"--log-level", "debug"},
			want: logConfig{Level: "debug"},
		},
		{
			name: "level without value",
			args: []string{"--log-level", "--log-caller"},
			want: logConfig{Caller: true},
		},
		{
			name: "format separate",
			args: []string{"--log-format", "json"},
			want: logConfig{Format: "json"},
		},
		{
			name:  "pretty negated",
			start: logConfig{Pretty: true},
			args:  []string{"--no-log-pretty"},
			want:  logConfig{Pretty: false},
		},
		{
			name:  "pretty attached false",
			start: logConfig{Pretty: true},
			args:  []string{"--log-pretty=false"},
			want:  logConfig{Pretty: false},
		},
		{
			name: "caller double negation",
			args: []string{"--no-log-caller=false"},
			want: logConfig{Caller: true},
		},
		{
			name: "caller invalid value ignored",
			args: []string{"--log-caller=bogus"},
			want: logConfig{},
		},
		{
			name: "unrelated arguments",
			args: []string{"run", "--max-depth=5", "program.rubber"},
			want: logConfig{},
		},
		{
			name: "mixed flags",
			args: []string{"--log-level", "warn", "x.rubber", "--log-caller"},
			want: logConfig{Level: "warn", Caller: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.start
			f.scan(tt.args)

			if f != tt.want {
				t.Errorf("scan(%v) = %+v, expected %+v", tt.args, f, tt.want)
			}
		})
	}
}

func TestScanBool(t *testing.T) {
	tests := []struct {
		flag     string
		value    string
		assigned bool
		want     bool
		ok       bool
	}{
		{flag: "--log-pretty", want: true, ok: true},
		{flag: "--no-log-pretty", want: false, ok: true},
		{flag: "--log-pretty", value: "false", assigned: true, want: false, ok: true},
		{flag: "--no-log-caller", value: "false", assigned: true, want: true, ok: true},
		{flag: "--log-caller", value: "bogus", assigned: true, ok: false},
	}

	for _, tt := range tests {
		v, ok := scanBool(tt.flag, tt.value, tt.assigned)
		if ok != tt.ok || (ok && v != tt.want) {
			t.Errorf("scanBool(%q, %q, %v) = %v, %v; expected %v, %v",
				tt.flag, tt.value, tt.assigned, v, ok, tt.want, tt.ok)
		}
	}
}
