package imageio

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/maruel/natural"
	"google.golang.org/api/iterator"
)

const gsScheme = "gs://"

func IsGoogleStorage(p string) bool {
	return strings.HasPrefix(p, gsScheme)
}

// JoinPath joins a folder and a file name, keeping forward slashes for
// gs:// paths.
func JoinPath(folder, name string) string {
	if IsGoogleStorage(folder) {
		return gsScheme + path.Join(strings.TrimPrefix(folder, gsScheme), name)
	}

	return filepath.Join(folder, name)
}

// ListFolder returns the names of the files directly inside folder, sorted in
// natural order so that "2.jpg" precedes "10.jpg". Subfolders and dot-files
// are skipped. A folder that does not exist, or that holds no files, is an
// error.
func ListFolder(ctx context.Context, folder string, client *storage.Client) ([]string, error) {
	var names []string
	var err error

	if IsGoogleStorage(folder) {
		names, err = listGoogleStorage(ctx, folder, client)
	} else {
		names, err = listLocal(folder)
	}
	if err != nil {
		return nil, err
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%s: %w", folder, ErrNoImages)
	}

	sort.Sort(natural.StringSlice(names))

	return names, nil
}

func listLocal(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, pfx.Err(err)
	}

	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || hidden(entry.Name()) {
			continue
		}
		out = append(out, entry.Name())
	}

	return out, nil
}

func listGoogleStorage(ctx context.Context, folder string, client *storage.Client) ([]string, error) {
	if client == nil {
		return nil, pfx.Err(fmt.Errorf("%s: a Google Storage client is required for gs:// paths", folder))
	}

	bucketName, prefix, err := splitGSPath(folder)
	if err != nil {
		return nil, err
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	// With a delimiter, "subfolders" come back as synthetic entries with an
	// empty Name, so only objects directly under prefix are returned.
	it := client.Bucket(bucketName).Objects(ctx, &storage.Query{Prefix: prefix, Delimiter: "/"})

	out := make([]string, 0)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		} else if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %w", folder, err))
		}

		name := strings.TrimPrefix(attrs.Name, prefix)
		if attrs.Name == "" || name == "" || hidden(name) {
			continue
		}

		out = append(out, name)
	}

	return out, nil
}

// splitGSPath splits gs://bucket/some/object into its bucket and object
// name. The object name may be empty when the path names a whole bucket.
func splitGSPath(p string) (bucket, object string, err error) {
	pathParts := strings.SplitN(strings.TrimPrefix(p, gsScheme), "/", 2)
	if pathParts[0] == "" {
		return "", "", fmt.Errorf("%s: no bucket in Google Storage path", p)
	}

	if len(pathParts) == 1 {
		return pathParts[0], "", nil
	}

	return pathParts[0], pathParts[1], nil
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
