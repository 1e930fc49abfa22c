package docs

import (
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	got := strings.Join(Topics(), ",")
	if got != "keys,storage,web" {
		t.Fatalf("topics=%q", got)
	}
}

func TestGet(t *testing.T) {
	body, ok := Get(" Keys ")
	if !ok || !strings.HasPrefix(body, "# Keys") {
		t.Fatalf("Get(keys) ok=%v body=%q", ok, body)
	}
	for _, topic := range []string{"", "missing", "../docs", "content/keys"} {
		if _, ok := Get(topic); ok {
			t.Fatalf("Get(%q) should fail", topic)
		}
	}
}
