// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/hubbub/internal/logging"
)

// Key prefixes for BadgerDB storage
const (
	channelKeyPrefix = "channel:"
	videoKeyPrefix   = "video:"
)

// ErrNotFound is returned when a channel or video does not exist.
var ErrNotFound = errors.New("not found")

// Channel is the subscription state of one tracked YouTube channel.
type Channel struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Subscribed bool   `json:"subscribed"`
	// LeaseMS is the lease granted by the hub, in milliseconds.
	LeaseMS       int64     `json:"lease_ms"`
	SubscribeDate time.Time `json:"subscribe_date"`
	MsgCount      int64     `json:"msg_count"`
	LastMsg       time.Time `json:"last_msg"`
	LastMsgVideo  string    `json:"last_msg_video"`
}

// Lease returns the granted lease as a duration.
func (c *Channel) Lease() time.Duration {
	return time.Duration(c.LeaseMS) * time.Millisecond
}

// Video is an enriched video document.
type Video struct {
	ID             string          `json:"id"`
	ChannelID      string          `json:"channel_id"`
	Title          string          `json:"title"`
	Published      time.Time       `json:"published"`
	Updated        time.Time       `json:"updated"`
	Snippet        json.RawMessage `json:"snippet,omitempty"`
	ContentDetails json.RawMessage `json:"content_details,omitempty"`
	Status         json.RawMessage `json:"status,omitempty"`
	Live           bool            `json:"live"`
	Downloaded     bool            `json:"downloaded"`
	Downloading    bool            `json:"downloading"`
	DateAdded      time.Time       `json:"date_added"`
	PubSub         bool            `json:"pubsub"`
}

// Config configures the database location.
type Config struct {
	Path     string
	InMemory bool
}

// Store is the BadgerDB-backed channel and video store.
type Store struct {
	db       *badger.DB
	inMemory bool

	// mu serializes read-modify-write cycles.
	mu sync.Mutex
}

// Open opens (or creates) the database.
func Open(cfg Config) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = badgerLogger{}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &Store{db: db, inMemory: cfg.InMemory}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutChannel writes a channel, replacing any existing state.
func (s *Store) PutChannel(ctx context.Context, ch *Channel) error {
	if ch.ID == "" {
		return errors.New("channel id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, channelKeyPrefix+ch.ID, ch)
	})
}

// GetChannel returns the channel with id, or ErrNotFound.
func (s *Store) GetChannel(ctx context.Context, id string) (*Channel, error) {
	var ch Channel
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, channelKeyPrefix+id, &ch)
	})
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// ListChannels returns every channel in ascending ID order.
func (s *Store) ListChannels(ctx context.Context) ([]*Channel, error) {
	var channels []*Channel

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		prefix := []byte(channelKeyPrefix)
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var ch Channel
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &ch)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			channels = append(channels, &ch)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	return channels, nil
}

// Update applies fn to the stored channel and writes the result back.
// Returns ErrNotFound when the channel is not tracked; fn is not called.
// An error from fn aborts the write.
func (s *Store) Update(ctx context.Context, id string, fn func(*Channel) error) (*Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var ch Channel
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := getJSON(txn, channelKeyPrefix+id, &ch); err != nil {
			return err
		}
		if err := fn(&ch); err != nil {
			return err
		}
		ch.ID = id
		return setJSON(txn, channelKeyPrefix+id, &ch)
	})
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// InsertChannelIfAbsent stores ch unless a channel with the same ID exists.
// It reports whether ch was written.
func (s *Store) InsertChannelIfAbsent(ctx context.Context, ch *Channel) (bool, error) {
	if ch.ID == "" {
		return false, errors.New("channel id is required")
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := false
	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(channelKeyPrefix + ch.ID))
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("get channel: %w", err)
		}
		inserted = true
		return setJSON(txn, channelKeyPrefix+ch.ID, ch)
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

// InsertVideoIfAbsent stores v unless a video with the same ID exists.
// It reports whether v was written.
func (s *Store) InsertVideoIfAbsent(ctx context.Context, v *Video) (bool, error) {
	if v.ID == "" {
		return false, errors.New("video id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := false
	err := s.db.Update(func(txn *badger.Txn) error {
		key := []byte(videoKeyPrefix + v.ID)
		_, err := txn.Get(key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("get video: %w", err)
		}
		inserted = true
		return setJSON(txn, videoKeyPrefix+v.ID, v)
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

// GetVideo returns the video with id, or ErrNotFound.
func (s *Store) GetVideo(ctx context.Context, id string) (*Video, error) {
	var v Video
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, videoKeyPrefix+id, &v)
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Ping checks that the database answers a read transaction.
func (s *Store) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return errors.New("store is closed")
	}
	return s.db.View(func(*badger.Txn) error { return ctx.Err() })
}

// RunGC rewrites value log files until badger finds nothing left to
// reclaim. It is a no-op for in-memory stores.
func (s *Store) RunGC(discardRatio float64) error {
	if s.inMemory {
		return nil
	}
	if s.db.IsClosed() {
		return errors.New("store is closed")
	}
	for {
		err := s.db.RunValueLogGC(discardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run value log gc: %w", err)
		}
	}
}

func getJSON(txn *badger.Txn, key string, dst interface{}) error {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dst)
	})
}

func setJSON(txn *badger.Txn, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := txn.Set([]byte(key), data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// badgerLogger routes BadgerDB's own messages into zerolog. Info output is
// demoted to debug; badger is chatty at startup.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logging.Error().Str("component", "badger").Msgf(trimNewline(format), args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logging.Warn().Str("component", "badger").Msgf(trimNewline(format), args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logging.Debug().Str("component", "badger").Msgf(trimNewline(format), args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	logging.Trace().Str("component", "badger").Msgf(trimNewline(format), args...)
}

func trimNewline(format string) string {
	if n := len(format); n > 0 && format[n-1] == '\n' {
		return format[:n-1]
	}
	return format
}
