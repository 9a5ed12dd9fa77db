package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// RemoteStore implements Store. It requires to connect to a blobserver.
type RemoteStore struct {
	address string
	client  *http.Client
}

func NewRemoteStore(address string) *RemoteStore {
	return &RemoteStore{address: address, client: http.DefaultClient}
}

func (r *RemoteStore) Put(ctx context.Context, key string, obj Object) (err error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPut, r.pathFor(key), bytes.NewReader(obj.Body))
	if err != nil {
		return err
	}
	if obj.ContentType != "" {
		request.Header.Set("Content-Type", obj.ContentType)
	}
	response, err := r.client.Do(request)
	if response != nil && response.Body != nil {
		defer func() {
			_ = response.Body.Close()
		}()
	}
	if err != nil {
		return err
	}
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}
	if response.StatusCode != http.StatusOK {
		return errors.New(string(body))
	}
	return nil
}

func (r *RemoteStore) Get(ctx context.Context, key string) (obj Object, err error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, r.pathFor(key), nil)
	if err != nil {
		return Object{}, err
	}
	response, err := r.client.Do(request)
	if response != nil && response.Body != nil {
		defer func() {
			_ = response.Body.Close()
		}()
	}
	if err != nil {
		return Object{}, err
	}
	if response.StatusCode == http.StatusNotFound {
		return Object{}, fmt.Errorf("%q: %w", key, ErrNotFound)
	}
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return Object{}, err
	}
	if response.StatusCode != http.StatusOK {
		return Object{}, errors.New(string(body))
	}
	return Object{
		ContentType: response.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func (r *RemoteStore) pathFor(key string) string {
	return fmt.Sprintf("http://%s/%s", r.address, url.PathEscape(key))
}
