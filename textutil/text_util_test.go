package textutil

import "testing"

func TestSmartTrim(t *testing.T) {
	tt := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "surrounding_space", in: "  hello  ", want: "hello"},
		{name: "inner_runs", in: "hello    world", want: "hello world"},
		{name: "tabs", in: "hello\t\tworld", want: "hello\tworld"},
		{name: "keeps_paragraphs", in: "one\n\ntwo", want: "one\n\ntwo"},
		{name: "caps_linebreaks", in: "one\n\n\n\ntwo", want: "one\n\ntwo"},
		{name: "trims_lines", in: "  one  \n  two  ", want: "one\ntwo"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := SmartTrim(tc.in); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
