package gridfs

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"pet-services/internal/ports/blob"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store guarda blobs en un bucket GridFS; el path del blob es el _id del archivo.
type Store struct {
	bucket  *gridfs.Bucket
	baseURL string
}

func NewStore(db *mongo.Database, bucketName, baseURL string) (*Store, error) {
	b, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(bucketName))
	if err != nil {
		return nil, err
	}
	return &Store{bucket: b, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// El GridFS de mongo-driver v1 trabaja con deadlines y no con contexts: se corta temprano
// si ctx ya terminó y su deadline se aplica a cada stream.
func withDeadline(ctx context.Context, set func(time.Time) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dl, ok := ctx.Deadline(); ok {
		return set(dl)
	}
	return nil
}

func (s *Store) Put(ctx context.Context, path, contentType string, r io.Reader) (blob.Object, error) {
	if err := ctx.Err(); err != nil {
		return blob.Object{}, err
	}
	// GridFS no reemplaza: si ya existe el path lo borramos antes.
	if err := s.bucket.DeleteContext(ctx, path); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
		return blob.Object{}, err
	}

	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": contentType})
	us, err := s.bucket.OpenUploadStreamWithID(path, path, opts)
	if err != nil {
		return blob.Object{}, err
	}
	if err := withDeadline(ctx, us.SetWriteDeadline); err != nil {
		_ = us.Abort()
		return blob.Object{}, err
	}
	n, err := io.Copy(us, r)
	if err != nil {
		_ = us.Abort()
		return blob.Object{}, err
	}
	if err := us.Close(); err != nil {
		return blob.Object{}, err
	}
	return blob.Object{
		Path:        path,
		URL:         s.baseURL + "/files/" + path,
		ContentType: contentType,
		Size:        n,
	}, nil
}

func (s *Store) Open(ctx context.Context, path string) (io.ReadCloser, blob.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, blob.Object{}, err
	}
	ds, err := s.bucket.OpenDownloadStream(path)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, blob.Object{}, blob.ErrNotFound
		}
		return nil, blob.Object{}, err
	}
	if err := withDeadline(ctx, ds.SetReadDeadline); err != nil {
		_ = ds.Close()
		return nil, blob.Object{}, err
	}

	f := ds.GetFile()
	obj := blob.Object{
		Path: path,
		URL:  s.baseURL + "/files/" + path,
		Size: f.Length,
	}
	var meta struct {
		ContentType string `bson:"contentType"`
	}
	if f.Metadata != nil {
		if err := bson.Unmarshal(f.Metadata, &meta); err == nil {
			obj.ContentType = meta.ContentType
		}
	}
	return ds, obj, nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.bucket.DeleteContext(ctx, path)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return blob.ErrNotFound
	}
	return err
}
