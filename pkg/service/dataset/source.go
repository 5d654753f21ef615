package dataset

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"

	"github.com/campus-lab/minerva/pkg/domain/types"
	"github.com/campus-lab/minerva/pkg/utils/safe"
)

// Entry is one item of a source directory listing.
type Entry struct {
	Name string
	Dir  bool
}

// Source abstracts where dataset files live. Paths are slash-separated
// and relative to the source root. Missing files yield
// types.ErrDataNotFound.
type Source interface {
	ReadFile(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context, dir string) ([]Entry, error)
}

// NewSource returns a GCS-backed source for gs:// roots, otherwise a
// local directory source.
func NewSource(ctx context.Context, root string) (Source, error) {
	if strings.HasPrefix(root, "gs://") {
		return newGCSSource(ctx, root)
	}
	return &dirSource{root: root}, nil
}

type dirSource struct {
	root string
}

func (x *dirSource) ReadFile(ctx context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(x.root, filepath.FromSlash(name)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, goerr.Wrap(types.ErrDataNotFound, "file does not exist",
				goerr.V("name", name),
				goerr.V("root", x.root),
			)
		}
		return nil, goerr.Wrap(err, "failed to read dataset file", goerr.V("name", name))
	}
	return data, nil
}

func (x *dirSource) List(ctx context.Context, dir string) ([]Entry, error) {
	items, err := os.ReadDir(filepath.Join(x.root, filepath.FromSlash(dir)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, goerr.Wrap(types.ErrDataNotFound, "directory does not exist",
				goerr.V("dir", dir),
				goerr.V("root", x.root),
			)
		}
		return nil, goerr.Wrap(err, "failed to list dataset directory", goerr.V("dir", dir))
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, Entry{Name: item.Name(), Dir: item.IsDir()})
	}
	return entries, nil
}

type gcsSource struct {
	bucket *storage.BucketHandle
	prefix string
}

func newGCSSource(ctx context.Context, root string) (*gcsSource, error) {
	trimmed := strings.TrimPrefix(root, "gs://")
	bucketName, prefix, _ := strings.Cut(trimmed, "/")
	if bucketName == "" {
		return nil, goerr.New("invalid GCS root", goerr.V("root", root))
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create cloud storage client")
	}

	return &gcsSource{
		bucket: client.Bucket(bucketName),
		prefix: strings.TrimSuffix(prefix, "/"),
	}, nil
}

func (x *gcsSource) objectName(name string) string {
	if x.prefix == "" {
		return name
	}
	return path.Join(x.prefix, name)
}

func (x *gcsSource) ReadFile(ctx context.Context, name string) ([]byte, error) {
	reader, err := x.bucket.Object(x.objectName(name)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, goerr.Wrap(types.ErrDataNotFound, "object does not exist",
				goerr.V("name", name),
			)
		}
		return nil, goerr.Wrap(err, "failed to open dataset object", goerr.V("name", name))
	}
	defer safe.Close(ctx, reader)

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read dataset object", goerr.V("name", name))
	}
	return data, nil
}

func (x *gcsSource) List(ctx context.Context, dir string) ([]Entry, error) {
	prefix := x.objectName(dir)
	if prefix != "" {
		prefix += "/"
	}

	it := x.bucket.Objects(ctx, &storage.Query{
		Prefix:    prefix,
		Delimiter: "/",
	})

	var entries []Entry
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list dataset objects", goerr.V("dir", dir))
		}

		if attrs.Prefix != "" {
			entries = append(entries, Entry{
				Name: path.Base(strings.TrimSuffix(attrs.Prefix, "/")),
				Dir:  true,
			})
			continue
		}
		if attrs.Name != "" && attrs.Name != prefix {
			entries = append(entries, Entry{Name: path.Base(attrs.Name)})
		}
	}
	return entries, nil
}
