package mediasniff

import "testing"

func TestSniffJPEG(t *testing.T) {
	data := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	if got := Sniff(data, ".jpg"); got != Image {
		t.Fatalf("Sniff(jpeg) = %v, want Image", got)
	}
}

func TestSniffGIF(t *testing.T) {
	data := []byte("GIF89a")
	if got := Sniff(data, ".gif"); got != Gif {
		t.Fatalf("Sniff(gif) = %v, want Gif", got)
	}
}

func TestSniffPNG(t *testing.T) {
	data := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	if got := Sniff(data, ".png"); got != Image {
		t.Fatalf("Sniff(png) = %v, want Image", got)
	}
}

func TestSniffVideoByExtension(t *testing.T) {
	// Arbitrary bytes mimetype will not resolve to a specific container;
	// the extension hint should still route this to Video.
	data := []byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p'}
	if got := Sniff(data, ".mp4"); got != Video {
		t.Fatalf("Sniff(mp4) = %v, want Video", got)
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{Image: "image", Gif: "gif", Video: "video", Unknown: "unknown"}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
