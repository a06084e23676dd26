package draft

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/interview-console/internal"
	"github.com/valkey-io/valkey-go"
)

const valkeyKeyPrefix = "interview-console:draft:"

// ValkeyStore keeps drafts in Valkey so any replica can serve them. Expiry is
// delegated to the key TTL.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore connects to addr and verifies the connection.
func NewValkeyStore(addr string) (*ValkeyStore, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Valkey: %w", err)
	}

	slog.Info("Initialized Valkey draft store", "address", addr, "key_prefix", valkeyKeyPrefix)
	return NewValkeyStoreFromClient(client), nil
}

func NewValkeyStoreFromClient(client valkey.Client) *ValkeyStore {
	return &ValkeyStore{client: client, prefix: valkeyKeyPrefix}
}

func (s *ValkeyStore) key(id string) string {
	return s.prefix + id
}

func (s *ValkeyStore) Get(ctx context.Context, id string) (*Draft, error) {
	data, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(id)).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, internal.ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read draft %s: %w", id, err)
	}
	return decode(data)
}

func (s *ValkeyStore) Save(ctx context.Context, d *Draft, ttl time.Duration) error {
	data, err := encode(d)
	if err != nil {
		return err
	}

	seconds := int64(ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	cmd := s.client.B().Set().Key(s.key(d.ID)).Value(valkey.BinaryString(data)).ExSeconds(seconds).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to save draft %s: %w", d.ID, err)
	}
	return nil
}

func (s *ValkeyStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Do(ctx, s.client.B().Del().Key(s.key(id)).Build()).Error(); err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", id, err)
	}
	return nil
}

func (s *ValkeyStore) Ping(ctx context.Context) error {
	return s.client.Do(ctx, s.client.B().Ping().Build()).Error()
}

func (s *ValkeyStore) Close() {
	s.client.Close()
}
