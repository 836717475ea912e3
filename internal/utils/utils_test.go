package utils

import "testing"

func TestFormatCount(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1K"},
		{1049, "1K"},
		{1050, "1.1K"},
		{1500, "1.5K"},
		{999999, "1000K"},
		{1000000, "1M"},
		{1260000, "1.3M"},
		{2000000000, "2000M"},
		{-7, "-7"},
		{-1500, "-1.5K"},
		{-1000000, "-1M"},
	}

	for _, tc := range cases {
		if got := FormatCount(tc.in); got != tc.want {
			t.Errorf("FormatCount(%d) = %q; want %q", tc.in, got, tc.want)
		}
	}
}
