package imageio

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, c color.Color) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, c)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestListFolderNaturalOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"10.png", "2.png", "1.png", "img12.png", "img3.png"} {
		writePNG(t, filepath.Join(dir, name), color.NRGBA{R: 1, A: 255})
	}

	// Skipped entries
	if err := os.Mkdir(filepath.Join(dir, "thumbs"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".DS_Store"), []byte("junk"), 0644); err != nil {
		t.Fatal(err)
	}

	names, err := ListFolder(context.Background(), dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	expected := []string{"1.png", "2.png", "10.png", "img3.png", "img12.png"}
	if len(names) != len(expected) {
		t.Fatalf("got %v, expected %v", names, expected)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Fatalf("got %v, expected %v", names, expected)
		}
	}
}

func TestListFolderMissing(t *testing.T) {
	if _, err := ListFolder(context.Background(), filepath.Join(t.TempDir(), "nope"), nil); err == nil {
		t.Fatal("Expected an error for a missing folder")
	}
}

func TestListFolderEmpty(t *testing.T) {
	_, err := ListFolder(context.Background(), t.TempDir(), nil)
	if !errors.Is(err, ErrNoImages) {
		t.Fatalf("Expected ErrNoImages, got %v", err)
	}
}

func TestLoadFolder(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	writePNG(t, filepath.Join(dir, "a.png"), color.NRGBA{R: 40, G: 50, B: 60, A: 255})

	f, err := os.Create(filepath.Join(dir, "c.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	if err := jpeg.Encode(f, image.NewGray(image.Rect(0, 0, 4, 4)), nil); err != nil {
		t.Fatal(err)
	}
	f.Close()

	imgs, err := LoadFolder(context.Background(), dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(imgs) != 3 {
		t.Fatalf("Expected 3 images, got %d", len(imgs))
	}

	if imgs[0].Name != "a.png" || imgs[1].Name != "b.png" || imgs[2].Name != "c.jpg" {
		t.Errorf("Unexpected order: %s %s %s", imgs[0].Name, imgs[1].Name, imgs[2].Name)
	}

	r, g, b, _ := imgs[0].At(0, 0).RGBA()
	if r>>8 != 40 || g>>8 != 50 || b>>8 != 60 {
		t.Errorf("Unexpected pixel %d %d %d", r>>8, g>>8, b>>8)
	}

	if got := imgs[2].Bounds().Dx(); got != 4 {
		t.Errorf("Expected a 4px wide jpeg, got %d", got)
	}
}

func TestLoadFolderUndecodable(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "1.png"), color.NRGBA{R: 10, A: 255})
	if err := os.WriteFile(filepath.Join(dir, "2.png"), []byte("not a png"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFolder(context.Background(), dir, nil); err == nil {
		t.Fatal("Expected a decode error")
	}
}

func TestGoogleStorageRequiresClient(t *testing.T) {
	if _, err := ListFolder(context.Background(), "gs://bucket/plates/0", nil); err == nil {
		t.Fatal("Expected an error without a storage client")
	}
}

func TestSplitGSPath(t *testing.T) {
	for _, v := range []struct {
		Path, Bucket, Object string
		Err                  bool
	}{
		{"gs://bucket/a/b/c.png", "bucket", "a/b/c.png", false},
		{"gs://bucket", "bucket", "", false},
		{"gs://bucket/", "bucket", "", false},
		{"gs://", "", "", true},
	} {
		bucket, object, err := splitGSPath(v.Path)
		if (err != nil) != v.Err {
			t.Errorf("%s: unexpected error state %v", v.Path, err)
			continue
		}
		if bucket != v.Bucket || object != v.Object {
			t.Errorf("%s: got %q %q, expected %q %q", v.Path, bucket, object, v.Bucket, v.Object)
		}
	}
}

func TestJoinPath(t *testing.T) {
	if got := JoinPath("gs://bucket/calibration curve", "0.50"); got != "gs://bucket/calibration curve/0.50" {
		t.Errorf("got %q", got)
	}

	if got := JoinPath("calibration curve", "0.50"); got != filepath.Join("calibration curve", "0.50") {
		t.Errorf("got %q", got)
	}
}
