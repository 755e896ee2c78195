// Package imageio loads the replicate photographs for one concentration from
// a local folder or a Google Storage prefix.
package imageio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrNoImages = errors.New("no image files found")

// NamedImage is a decoded image together with the file name it came from.
type NamedImage struct {
	Name string
	image.Image
}

// ImageFromBytes creates an image from the specified bytes. Must be PNG, GIF,
// BMP, TIFF, WebP or JPEG formatted (based on the decoders we have imported).
// EXIF orientation, as written by phone cameras, is applied.
func ImageFromBytes(imgBytes []byte) (image.Image, error) {
	return imaging.Decode(bytes.NewReader(imgBytes), imaging.AutoOrientation(true))
}

func OpenImageFromLocalFileOrGoogleStorage(ctx context.Context, filePath string, client *storage.Client) (image.Image, error) {
	f, err := open(ctx, filePath, client)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// The image decoder swallows errors, so we won't see i/o errors if they
	// happen during image decoding. To capture these, we read the full image
	// into memory here, and pass a byte reader to the image decoder.
	imgBytes, err := io.ReadAll(f)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", filePath, err))
	}
	f.Close()

	img, err := ImageFromBytes(imgBytes)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", filePath, err))
	}

	return img, nil
}

// LoadFolder decodes every image file in folder, in natural filename order.
// The first file that cannot be read or decoded aborts the load.
func LoadFolder(ctx context.Context, folder string, client *storage.Client) ([]NamedImage, error) {
	names, err := ListFolder(ctx, folder, client)
	if err != nil {
		return nil, err
	}

	out := make([]NamedImage, 0, len(names))
	for _, name := range names {
		img, err := OpenImageFromLocalFileOrGoogleStorage(ctx, JoinPath(folder, name), client)
		if err != nil {
			return nil, err
		}

		out = append(out, NamedImage{Name: name, Image: img})
	}

	return out, nil
}

// Loader reads folders from local disk, or from Google Storage when Client is
// set and the folder is a gs:// path. The zero value reads local folders.
type Loader struct {
	Client *storage.Client
}

func (l Loader) LoadFolder(ctx context.Context, folder string) ([]NamedImage, error) {
	return LoadFolder(ctx, folder, l.Client)
}

func open(ctx context.Context, path string, client *storage.Client) (io.ReadCloser, error) {
	if !IsGoogleStorage(path) {
		f, err := os.Open(path)
		if err != nil {
			return nil, pfx.Err(err)
		}
		return f, nil
	}

	if client == nil {
		return nil, pfx.Err(fmt.Errorf("%s: a Google Storage client is required for gs:// paths", path))
	}

	bucketName, objectName, err := splitGSPath(path)
	if err != nil {
		return nil, err
	}

	rdr, err := client.Bucket(bucketName).Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return rdr, nil
}
