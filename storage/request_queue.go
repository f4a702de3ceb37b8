package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrQueueMissing is returned when the request file does not exist.
	ErrQueueMissing = errors.New("request file not found")
	// ErrQueueMalformed is returned when the request file does not hold a
	// {"urls": [...]} object.
	ErrQueueMalformed = errors.New("request file must contain a 'urls' key with a list of URLs")
)

type queueFile struct {
	URLs []string `json:"urls"`
}

// RequestQueue is the append-only list of listing URLs to scrape, persisted
// as a JSON file.
type RequestQueue struct {
	path string
	urls []string
}

// NewRequestQueue loads the queue from the JSON file at path.
func NewRequestQueue(path string) (*RequestQueue, error) {
	q := &RequestQueue{path: path}
	if err := q.load(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *RequestQueue) load() error {
	data, err := os.ReadFile(q.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrQueueMissing, q.path)
		}
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrQueueMalformed, err)
	}
	urlsRaw, ok := raw["urls"]
	if !ok {
		return ErrQueueMalformed
	}

	var urls []string
	if err := json.Unmarshal(urlsRaw, &urls); err != nil {
		return fmt.Errorf("%w: %v", ErrQueueMalformed, err)
	}

	q.urls = urls
	return nil
}

// URLs returns the queued URLs in insertion order.
func (q *RequestQueue) URLs() []string {
	return q.urls
}

// Add appends a URL and saves the file. Duplicates are ignored.
func (q *RequestQueue) Add(url string) error {
	for _, existing := range q.urls {
		if existing == url {
			return nil
		}
	}
	q.urls = append(q.urls, url)
	return q.save()
}

// Remove deletes a URL and saves the file. Unknown URLs are ignored.
func (q *RequestQueue) Remove(url string) error {
	for i, existing := range q.urls {
		if existing == url {
			q.urls = append(q.urls[:i], q.urls[i+1:]...)
			return q.save()
		}
	}
	return nil
}

func (q *RequestQueue) save() error {
	data, err := json.MarshalIndent(queueFile{URLs: q.urls}, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(q.path, data, 0644)
}
