package media

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		want Kind
	}{
		{"photo.jpg", KindImage},
		{"photo.JPEG", KindImage},
		{"scan.png", KindImage},
		{"shot.HEIC", KindImage},
		{"art.tiff", KindImage},
		{"old.bmp", KindImage},
		{"loop.gif", KindLoop},
		{"clip.mp4", KindVideo},
		{"clip.MOV", KindVideo},
		{"clip.m4v", KindVideo},
		{"clip.avi", KindVideo},
		{"clip.mkv", KindVideo},
		{"notes.txt", KindUnknown},
		{"archive.zip", KindUnknown},
		{"noext", KindUnknown},
		{"/some/dir/video.mp4", KindVideo},
	}

	for _, tc := range cases {
		if got := Classify(tc.path); got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestSupported(t *testing.T) {
	if !Supported("a.png") {
		t.Error("png should be supported")
	}
	if Supported("a.txt") {
		t.Error("txt should not be supported")
	}
}
