package storage

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
)

type writeback struct {
	key string
	obj Object
}

// Paired implements Store wrapping a pair of stores, one fast, one slow. It
// will handle puts storing data in the fast store and syncing that to the slow
// store in the background. It will handle gets from the fast store if possible,
// otherwise from the slow store (and in this case also propagate the data from
// the slow to the fast store, for next time that piece of data is requested).
type Paired struct {
	fast Store
	slow Store

	wbc chan writeback
}

func NewPaired(fast, slow Store) Paired {
	p := Paired{
		fast: fast,
		slow: slow,
		wbc:  make(chan writeback, 42),
	}
	// Exits only when the process is terminated.
	go p.writeback()
	return p
}

func (s Paired) Get(ctx context.Context, key string) (obj Object, err error) {
	obj, err = s.fast.Get(ctx, key)
	if err == nil {
		return
	}
	if !errors.Is(err, ErrNotFound) {
		return
	}
	obj, err = s.slow.Get(ctx, key)
	if err != nil {
		return Object{}, err
	}
	logger := log.WithFields(log.Fields{
		"key": key,
	})
	if ferr := s.fast.Put(ctx, key, obj); ferr != nil {
		logger.WithField("err", ferr).Warn("Could not propagate from slow to fast")
	} else {
		logger.Debug("Propagated from slow to fast")
	}
	return obj, nil
}

func (s Paired) Put(ctx context.Context, key string, obj Object) (err error) {
	if err = s.fast.Put(ctx, key, obj); err != nil {
		return err
	}
	// When the queue is full (the slow store is down or lagging) the write-back
	// is dropped; the slow store misses the object until it's put again, as it
	// does if the process dies in the middle of propagation.
	wb := writeback{key: key, obj: Object{ContentType: obj.ContentType, Body: dup(obj.Body)}}
	select {
	case s.wbc <- wb:
	case <-ctx.Done():
		log.WithFields(log.Fields{
			"key": key,
			"err": ctx.Err(),
		}).Warn("Dropped write-back to slow store")
	default:
		log.WithField("key", key).Warn("Dropped write-back to slow store, queue full")
	}
	return nil
}

func (s Paired) writeback() {
	for wb := range s.wbc {
		s.writeback1(wb.key, wb.obj)
	}
}

func (s Paired) writeback1(key string, obj Object) {
	logger := log.WithFields(log.Fields{
		"key": key,
	})
	for {
		// The request that triggered the put may be long gone.
		err := s.slow.Put(context.Background(), key, obj)
		if err == nil {
			logger.Debug("Propagated from fast to slow")
			break
		}
		logger.WithFields(log.Fields{
			"err": err,
		}).Warn("Could not propagate from fast to slow")
		// Should randomize.
		time.Sleep(time.Second)
	}
}
