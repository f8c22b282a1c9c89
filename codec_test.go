package statv

import "testing"

func TestDetectCodec(t *testing.T) {
	cases := []struct {
		name string
		data string
		want string
	}{
		{"json object", `{"port": 1}`, "application/json"},
		{"json array", `[1, 2]`, "application/json"},
		{"json with leading whitespace", "  \n {\"a\": 1}", "application/json"},
		{"yaml mapping", "port: 1\nhost: x", "application/x-yaml"},
		{"empty", "", "application/x-yaml"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := detectCodec([]byte(tc.data)).ContentType()
			if got != tc.want {
				t.Errorf("detectCodec(%q) = %s, want %s", tc.data, got, tc.want)
			}
		})
	}
}

func TestYAMLCodec_AcceptsJSON(t *testing.T) {
	var out map[string]any
	if err := (YAMLCodec{}).Unmarshal([]byte(`{"a": 1}`), &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if out["a"] != 1 {
		t.Errorf("expected a=1, got %v", out["a"])
	}
}

func TestJSONCodec_RejectsYAML(t *testing.T) {
	var out map[string]any
	if err := (JSONCodec{}).Unmarshal([]byte("a: 1"), &out); err == nil {
		t.Error("expected JSON codec to reject YAML")
	}
}
