package statv

import "testing"

func TestFeedState_String(t *testing.T) {
	cases := []struct {
		state FeedState
		want  string
	}{
		{FeedLoading, "loading"},
		{FeedLive, "live"},
		{FeedDegraded, "degraded"},
		{FeedEmpty, "empty"},
		{FeedState(99), "unknown"},
	}

	for _, tc := range cases {
		if got := tc.state.String(); got != tc.want {
			t.Errorf("FeedState(%d).String() = %s, want %s", tc.state, got, tc.want)
		}
	}
}
