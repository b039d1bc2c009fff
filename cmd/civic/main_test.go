package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectReportLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"civic"},
			want: []string{"civic"},
		},
		{
			name: "direct report id first token",
			in:   []string{"civic", "42"},
			want: []string{"civic", "reports", "show", "42"},
		},
		{
			name: "direct report id after value flag",
			in:   []string{"civic", "--server", "http://localhost:8000", "42"},
			want: []string{"civic", "--server", "http://localhost:8000", "reports", "show", "42"},
		},
		{
			name: "direct report id after equals flag",
			in:   []string{"civic", "--server=http://localhost:8000", "42"},
			want: []string{"civic", "--server=http://localhost:8000", "reports", "show", "42"},
		},
		{
			name: "direct report id after bool flag",
			in:   []string{"civic", "--pretty", "42"},
			want: []string{"civic", "--pretty", "reports", "show", "42"},
		},
		{
			name: "direct report id after double dash",
			in:   []string{"civic", "--server", "http://localhost:8000", "--", "42"},
			want: []string{"civic", "--server", "http://localhost:8000", "--", "reports", "show", "42"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"civic", "reports", "show", "42"},
			want: []string{"civic", "reports", "show", "42"},
		},
		{
			name: "non-numeric token not rewritten",
			in:   []string{"civic", "wat"},
			want: []string{"civic", "wat"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectReportLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectReportLookupArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
