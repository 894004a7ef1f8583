package windows

import "testing"

func TestMatchWindow_ExactTitleOnly(t *testing.T) {
	windows := []topWindow{
		{handle: 1, title: "connect to server", visible: true},
		{handle: 2, title: "Connect to Server ", visible: true},
		{handle: 3, title: "Connect to Server", visible: true, pid: 42},
	}

	got, ok := matchWindow(windows, "Connect to Server")
	if !ok {
		t.Fatal("expected a match")
	}
	if got.handle != 3 {
		t.Errorf("handle: got %d, want 3", got.handle)
	}
	if got.title != "Connect to Server" {
		t.Errorf("title: got %q, want %q", got.title, "Connect to Server")
	}
}

func TestMatchWindow_CaseDiffersIsNoMatch(t *testing.T) {
	windows := []topWindow{{handle: 1, title: "connect to server", visible: true}}
	if _, ok := matchWindow(windows, "Connect to Server"); ok {
		t.Error("a title differing only in case should not match")
	}
}

func TestMatchWindow_PrefersVisible(t *testing.T) {
	windows := []topWindow{
		{handle: 1, title: "Connect to Server"},
		{handle: 2, title: "Connect to Server", visible: true},
	}
	got, _ := matchWindow(windows, "Connect to Server")
	if got.handle != 2 {
		t.Errorf("handle: got %d, want 2", got.handle)
	}

	got, ok := matchWindow(windows[:1], "Connect to Server")
	if !ok || got.handle != 1 {
		t.Errorf("hidden window should match when it is the only one, got %+v %v", got, ok)
	}
}
