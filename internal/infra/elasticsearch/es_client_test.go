package elasticsearch

import (
	"reflect"
	"testing"
)

func TestNormalizeHosts(t *testing.T) {
	got := normalizeHosts([]string{" 127.0.0.1:9200 ", "", "https://es.internal:9200/", "http://es2:9200"})
	want := []string{"http://127.0.0.1:9200", "https://es.internal:9200", "http://es2:9200"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("normalizeHosts = %v, want %v", got, want)
	}
	if hosts := normalizeHosts([]string{" ", ""}); len(hosts) != 0 {
		t.Errorf("blank hosts = %v, want none", hosts)
	}
}
