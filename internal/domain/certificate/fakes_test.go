package certificate

import (
	"context"
	"fmt"
	"time"
)

// fakeStorage is an in-memory Storage double. Error fields force failures for
// specific operations.
type fakeStorage struct {
	objects  map[string][]byte
	metadata map[string]map[string]string

	uploadErr  error
	existsErr  error
	presignErr error

	uploadCalls  int
	presignCalls int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		objects:  make(map[string][]byte),
		metadata: make(map[string]map[string]string),
	}
}

func (f *fakeStorage) Upload(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error {
	f.uploadCalls++
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.objects[key] = data
	f.metadata[key] = metadata
	return nil
}

func (f *fakeStorage) Download(ctx context.Context, key string) ([]byte, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

func (f *fakeStorage) Exists(ctx context.Context, key string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.objects[key]
	return ok, nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) (bool, error) {
	if _, ok := f.objects[key]; !ok {
		return false, nil
	}
	delete(f.objects, key)
	delete(f.metadata, key)
	return true, nil
}

func (f *fakeStorage) Metadata(ctx context.Context, key string) (map[string]string, error) {
	md, ok := f.metadata[key]
	if !ok {
		return nil, ErrNotFound
	}
	return md, nil
}

func (f *fakeStorage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	f.presignCalls++
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return fmt.Sprintf("https://signed.example.com/%s?expires=%d", key, int(ttl.Seconds())), nil
}

// fakeCache is an in-memory KeyCache double.
type fakeCache struct {
	entries map[string]string

	getErr error
	setErr error

	deleteCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string)}
}

func (f *fakeCache) Get(ctx context.Context, certificateID string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.entries[certificateID], nil
}

func (f *fakeCache) Set(ctx context.Context, certificateID, key string, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[certificateID] = key
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, certificateID string) error {
	f.deleteCalls++
	delete(f.entries, certificateID)
	return nil
}

// fakeJobStore is an in-memory JobStore double.
type fakeJobStore struct {
	jobs    map[string]*BatchJob
	saveErr error
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: make(map[string]*BatchJob)}
}

func (f *fakeJobStore) SaveJob(ctx context.Context, job *BatchJob) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.jobs[job.JobID] = job
	return nil
}

func (f *fakeJobStore) GetJob(ctx context.Context, jobID string) (*BatchJob, error) {
	return f.jobs[jobID], nil
}

// fakeRenderer counts render calls and returns static PDF bytes.
type fakeRenderer struct {
	renderCalls int
	renderErr   error
}

func (f *fakeRenderer) Render(req *Request) ([]byte, error) {
	f.renderCalls++
	if f.renderErr != nil {
		return nil, f.renderErr
	}
	return []byte("%PDF-1.4 fake certificate"), nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func validRequest() *Request {
	return &Request{
		UserName:       "Test User",
		UserEmail:      "test@example.com",
		Kind:           KindTrack,
		Title:          "Go Mastery Track",
		ItemsCompleted: []string{"Go Basics", "Advanced Go"},
	}
}
