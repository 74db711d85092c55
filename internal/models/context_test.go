package models

import "testing"

func TestNewTabContext(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		domain string
		isNil  bool
	}{
		{"strips www", "https://www.example.com/path", "example.com", false},
		{"keeps subdomain", "https://mail.google.com/mail/u/0", "mail.google.com", false},
		{"drops port", "http://localhost:8080/x", "localhost", false},
		{"empty url", "", "", true},
		{"unparseable", "://bad", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tab := NewTabContext(tc.url, "title")
			if tc.isNil {
				if tab != nil {
					t.Fatalf("expected nil tab, got %+v", tab)
				}
				return
			}
			if tab == nil {
				t.Fatal("expected tab context")
			}
			if tab.Domain != tc.domain {
				t.Errorf("Domain = %q, expected %q", tab.Domain, tc.domain)
			}
		})
	}
}

func TestDisplayItemAccessors(t *testing.T) {
	a := Task{ID: "a", Order: Float(1000)}
	b := Task{ID: "b", Order: Float(1001)}

	task := TaskItem(a)
	if task.Key() != "a" {
		t.Errorf("Key() = %q, expected a", task.Key())
	}
	if *task.FirstOrder() != 1000 || *task.LastOrder() != 1000 {
		t.Error("task item first/last order mismatch")
	}

	group := GroupItem("report", []Task{a, b})
	if group.Key() != "report" {
		t.Errorf("Key() = %q, expected report", group.Key())
	}
	if *group.FirstOrder() != 1000 {
		t.Errorf("FirstOrder() = %v", *group.FirstOrder())
	}
	if *group.LastOrder() != 1001 {
		t.Errorf("LastOrder() = %v", *group.LastOrder())
	}

	empty := GroupItem("empty", nil)
	if empty.FirstOrder() != nil {
		t.Error("expected nil order for empty group")
	}
}

func TestDefaultDomainPatterns(t *testing.T) {
	patterns := DefaultDomainPatterns()
	if len(patterns) != 3 {
		t.Fatalf("expected 3 default patterns, got %d", len(patterns))
	}
	seen := map[string]bool{}
	for _, p := range patterns {
		if p.ID == "" || p.Name == "" {
			t.Errorf("pattern missing id or name: %+v", p)
		}
		if seen[p.ID] {
			t.Errorf("duplicate pattern id %q", p.ID)
		}
		seen[p.ID] = true
		if len(p.Patterns) == 0 || len(p.Keywords) == 0 {
			t.Errorf("pattern %q has no patterns or keywords", p.Name)
		}
	}
}
