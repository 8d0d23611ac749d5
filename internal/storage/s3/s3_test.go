package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/aanand-mishra/safety-alerts/internal/storage"
	"github.com/aanand-mishra/safety-alerts/internal/types"
)

// fakeObjects is an in-memory stand-in for the two S3 calls the store makes.
type fakeObjects struct {
	objects     map[string][]byte
	contentType string
	putErr      error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: make(map[string][]byte)}
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = b
	if in.ContentType != nil {
		f.contentType = *in.ContentType
	}
	return &s3.PutObjectOutput{}, nil
}

func TestReadMissingObject(t *testing.T) {
	store := NewWithClient(newFakeObjects(), "alerts", "")
	if _, err := store.Read(context.Background()); !errors.Is(err, storage.ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestWriteThenRead(t *testing.T) {
	fake := newFakeObjects()
	store := NewWithClient(fake, "alerts", "snapshots/data.json")
	ctx := context.Background()

	ds := types.Dataset{
		Persons:      []types.Person{{FirstName: "Tenley", LastName: "Boyd", Address: "1509 Culver St", City: "Culver", Zip: 97451, Phone: "841-874-6512", Email: "tenz@email.com"}},
		FireStations: []types.FireStation{{Address: "1509 Culver St", Station: 3}},
	}
	if err := store.Write(ctx, ds); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := fake.objects["alerts/snapshots/data.json"]; !ok {
		t.Fatalf("expected object under configured key")
	}
	if fake.contentType != "application/json" {
		t.Fatalf("unexpected content type %q", fake.contentType)
	}

	got, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got.Persons) != 1 || got.Persons[0] != ds.Persons[0] {
		t.Fatalf("persons mismatch %+v", got.Persons)
	}
	if len(got.FireStations) != 1 || got.FireStations[0].Station != 3 {
		t.Fatalf("stations mismatch %+v", got.FireStations)
	}
}

func TestWritePropagatesError(t *testing.T) {
	fake := newFakeObjects()
	fake.putErr = errors.New("boom")
	store := NewWithClient(fake, "alerts", "")
	if err := store.Write(context.Background(), types.Dataset{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestReadCorruptObject(t *testing.T) {
	fake := newFakeObjects()
	fake.objects["alerts/data.json"] = []byte("[]")
	store := NewWithClient(fake, "alerts", "")
	_, err := store.Read(context.Background())
	if err == nil || errors.Is(err, storage.ErrEmpty) {
		t.Fatalf("expected structural error, got %v", err)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error")
	}
}
