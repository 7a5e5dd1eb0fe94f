package pwashell

import "testing"

func TestSkeletonVariants(t *testing.T) {
	tests := []struct {
		name    string
		sk      Skeleton
		enabled bool
		markup  string
	}{
		{"zero value", Skeleton{}, false, ""},
		{"none", NoSkeleton, false, ""},
		{"default", DefaultSkeleton, true, DefaultSkeletonMarkup},
		{"markup", SkeletonMarkup("<i></i>"), true, "<i></i>"},
		{"func", SkeletonFunc(func() string { return "<b></b>" }), true, "<b></b>"},
		{"nil func", SkeletonFunc(nil), false, ""},
		{"repeat", RepeatSkeleton(`<ul class="cards"></ul>`, "<li></li>", 3), true, `<ul class="cards"><li></li><li></li><li></li></ul>`},
		{"repeat without container", RepeatSkeleton("", "<li></li>", 2), true, "<li></li><li></li>"},
		{"repeat negative count", RepeatSkeleton(`<ul class="cards"></ul>`, "<li></li>", -1), true, `<ul class="cards"></ul>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sk.Enabled(); got != tt.enabled {
				t.Errorf("Enabled() = %v, want %v", got, tt.enabled)
			}
			if got := tt.sk.Markup(); got != tt.markup {
				t.Errorf("Markup() = %q, want %q", got, tt.markup)
			}
		})
	}
}
