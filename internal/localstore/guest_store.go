package localstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/normalize"
	"go.uber.org/zap"
)

const DefaultKey = "guest_cart"

type storedCart struct {
	Items []storedLine `json:"items"`
}

type storedLine struct {
	ItemRef       domain.ItemRef       `json:"itemRef"`
	Quantity      int                  `json:"quantity"`
	Purchase      bool                 `json:"purchase"`
	RentalPeriod  *domain.RentalPeriod `json:"rentalPeriod,omitempty"`
	PriceSnapshot domain.PriceSnapshot `json:"priceSnapshot"`
}

// GuestStore keeps the guest cart under a single key of a KV.
// It never fails its callers: read problems yield an empty cart, write problems are logged.
type GuestStore struct {
	kv     KV
	key    string
	logger *zap.Logger
}

func NewGuestStore(kv KV, key string, logger *zap.Logger) *GuestStore {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &GuestStore{
		kv:     kv,
		key:    key,
		logger: logger.With(zap.String("key", key)),
	}
}

func (s *GuestStore) Load(ctx context.Context) []domain.CartLine {
	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return []domain.CartLine{}
	}
	if err != nil {
		s.warn(&domain.PersistenceError{Op: "load", Key: s.key, Err: err})
		return []domain.CartLine{}
	}

	rawLines, err := unwrapLines(raw)
	if err != nil {
		s.warn(&domain.PersistenceError{Op: "decode", Key: s.key, Err: err})
		return []domain.CartLine{}
	}

	lines := make([]domain.CartLine, 0, len(rawLines))
	for i, rawLine := range rawLines {
		line, err := decodeLine(rawLine)
		if err != nil {
			s.logger.Warn("dropping unrecognized guest cart line", zap.Int("index", i), zap.Error(err))
			continue
		}
		lines = merge(lines, line)
	}

	return lines
}

func (s *GuestStore) Save(ctx context.Context, lines []domain.CartLine) {
	raw, err := encodeLines(lines)
	if err != nil {
		s.warn(&domain.PersistenceError{Op: "encode", Key: s.key, Err: err})
		return
	}

	if err := s.kv.Put(ctx, s.key, raw); err != nil {
		s.warn(&domain.PersistenceError{Op: "save", Key: s.key, Err: err})
	}
}

func (s *GuestStore) warn(err *domain.PersistenceError) {
	s.logger.Warn("guest cart persistence failed, continuing in memory",
		zap.String("op", err.Op), zap.Error(err))
}

// unwrapLines accepts a bare array of lines or an object wrapping "items" or "lines".
func unwrapLines(raw []byte) ([]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var lines []json.RawMessage

	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &lines); err != nil {
			return nil, fmt.Errorf("json.Unmarshal array: %w", err)
		}
	case '{':
		var envelope struct {
			Items []json.RawMessage `json:"items"`
			Lines []json.RawMessage `json:"lines"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("json.Unmarshal object: %w", err)
		}
		lines = envelope.Items
		if lines == nil {
			lines = envelope.Lines
		}
	default:
		return nil, fmt.Errorf("unexpected stored cart shape starting with %q", raw[0])
	}

	return lines, nil
}

func decodeLine(raw json.RawMessage) (domain.CartLine, error) {
	input, err := normalize.Decode(raw)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("normalize.Decode: %w", err)
	}

	line, err := normalize.Normalize(input)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("normalize.Normalize: %w", err)
	}

	// guest lines always carry a snapshot
	if line.PriceSnapshot == nil {
		line.PriceSnapshot = &domain.PriceSnapshot{}
	}

	return line, nil
}

func encodeLines(lines []domain.CartLine) ([]byte, error) {
	cart := storedCart{Items: make([]storedLine, 0, len(lines))}

	for _, line := range lines {
		stored := storedLine{
			ItemRef:      line.ItemRef,
			Quantity:     line.Quantity,
			Purchase:     line.Purchase,
			RentalPeriod: line.RentalPeriod,
		}
		if line.PriceSnapshot != nil {
			stored.PriceSnapshot = *line.PriceSnapshot
		}
		cart.Items = append(cart.Items, stored)
	}

	raw, err := json.Marshal(cart)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return raw, nil
}

// merge folds a duplicate ref into the existing line, keeping the first line's mode and prices.
// The merged quantity saturates at math.MaxInt.
func merge(lines []domain.CartLine, line domain.CartLine) []domain.CartLine {
	for i := range lines {
		if lines[i].ItemRef == line.ItemRef {
			if line.Quantity > math.MaxInt-lines[i].Quantity {
				lines[i].Quantity = math.MaxInt
			} else {
				lines[i].Quantity += line.Quantity
			}
			return lines
		}
	}
	return append(lines, line)
}
