package deckcode

import (
	"bytes"
	"encoding/base32"
	"encoding/binary"
	"io"
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/KyleGowen/excelsior-sub008/deckrules"
)

const (
	Format          uint8 = 1
	InitialVersion  uint8 = 1
	MaxKnownVersion uint8 = 1

	MaxQuantity uint64 = 99
)

var (
	ErrUnknownFormat  = errors.New("unknown format")
	ErrUnknownVersion = errors.New("unknown version")
	ErrUnknownType    = errors.New("unknown card type")

	ErrUnexpectedCardCount = errors.New("unexpected card count")
	ErrInvalidCardID       = errors.New("invalid card id")
	ErrTrailingData        = errors.New("trailing data")

	ErrUnknownReserveMarker = errors.New("unknown reserve character marker")
)

var (
	base32Encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

	typeToUint64 = func() map[deckrules.Type]uint64 {
		m := make(map[deckrules.Type]uint64, len(deckrules.Types))
		for i, t := range deckrules.Types {
			m[t] = uint64(i)
		}
		return m
	}()
)

type group struct {
	quantity uint64
	entries  []deckrules.Entry
}

// Encode encodes a deck to a deck code. Card ids must be UUIDs.
func Encode(deck deckrules.Deck) (string, error) {
	buf := new(bytes.Buffer)

	if err := buf.WriteByte(Format<<4 | InitialVersion); err != nil {
		return "", errors.Wrap(err, "failed to write format and version")
	}

	groups, err := newSortedGroups(deck.Entries)
	if err != nil {
		return "", errors.Wrap(err, "failed to group entries")
	}

	if err := encodeGroups(buf, groups); err != nil {
		return "", errors.Wrap(err, "failed to encode groups")
	}

	if err := encodeReserve(buf, deck.ReserveCharacterID); err != nil {
		return "", errors.Wrap(err, "failed to encode reserve character")
	}

	return base32Encoding.EncodeToString(buf.Bytes()), nil
}

// Decode decodes a deck code to a deck.
func Decode(deckCode string) (deckrules.Deck, error) {
	b, err := base32Encoding.DecodeString(deckCode)
	if err != nil {
		return deckrules.Deck{}, errors.Wrap(err, "failed to base32 decode")
	}

	buf := bytes.NewBuffer(b)

	formatAndVersionByte, err := buf.ReadByte()
	if err != nil {
		return deckrules.Deck{}, errors.Wrap(err, "failed to read format and version")
	}

	if format := formatAndVersionByte >> 4; format != Format {
		return deckrules.Deck{}, ErrUnknownFormat
	}

	version := formatAndVersionByte & 0xf
	if version > MaxKnownVersion {
		return deckrules.Deck{}, ErrUnknownVersion
	}

	deck := deckrules.Deck{
		Entries: []deckrules.Entry{},
	}

	groupCount, err := binary.ReadUvarint(buf)
	if err != nil {
		return deckrules.Deck{}, errors.Wrap(err, "failed to read uvarint representing number of groups")
	}

	var i uint64
	for i = 0; i < groupCount; i++ {
		quantity, err := binary.ReadUvarint(buf)
		if err != nil {
			return deckrules.Deck{}, errors.Wrap(err, "failed to read uvarint representing quantity")
		}
		if quantity == 0 || quantity > MaxQuantity {
			return deckrules.Deck{}, ErrUnexpectedCardCount
		}

		entryCount, err := binary.ReadUvarint(buf)
		if err != nil {
			return deckrules.Deck{}, errors.Wrap(err, "failed to read uvarint representing number of entries")
		}

		var j uint64
		for j = 0; j < entryCount; j++ {
			typeIndex, err := binary.ReadUvarint(buf)
			if err != nil {
				return deckrules.Deck{}, errors.Wrap(err, "failed to read uvarint representing card type")
			}
			if typeIndex >= uint64(len(deckrules.Types)) {
				return deckrules.Deck{}, ErrUnknownType
			}

			cardID, err := readCardID(buf)
			if err != nil {
				return deckrules.Deck{}, errors.Wrap(err, "failed to read card id")
			}

			deck.Entries = append(deck.Entries, deckrules.Entry{
				CardID:   cardID,
				Type:     deckrules.Types[typeIndex],
				Quantity: int(quantity),
			})
		}
	}

	hasReserve, err := buf.ReadByte()
	if err != nil {
		return deckrules.Deck{}, errors.Wrap(err, "failed to read reserve character marker")
	}
	switch hasReserve {
	case 0:
	case 1:
		if deck.ReserveCharacterID, err = readCardID(buf); err != nil {
			return deckrules.Deck{}, errors.Wrap(err, "failed to read reserve character id")
		}
	default:
		return deckrules.Deck{}, ErrUnknownReserveMarker
	}

	if buf.Len() > 0 {
		return deckrules.Deck{}, ErrTrailingData
	}

	return deck, nil
}

// newSortedGroups groups entries by quantity, largest quantity first, each group sorted by card id.
func newSortedGroups(entries []deckrules.Entry) ([]group, error) {
	byQuantity := map[uint64][]deckrules.Entry{}

	for _, entry := range entries {
		if entry.Quantity <= 0 || uint64(entry.Quantity) > MaxQuantity {
			return nil, ErrUnexpectedCardCount
		}
		if _, ok := typeToUint64[entry.Type]; !ok {
			return nil, ErrUnknownType
		}

		quantity := uint64(entry.Quantity)
		byQuantity[quantity] = append(byQuantity[quantity], entry)
	}

	groups := make([]group, 0, len(byQuantity))
	for quantity, ofX := range byQuantity {
		sort.Slice(ofX, func(i, j int) bool {
			return ofX[i].CardID < ofX[j].CardID
		})

		groups = append(groups, group{
			quantity: quantity,
			entries:  ofX,
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].quantity > groups[j].quantity
	})

	return groups, nil
}

func encodeGroups(w io.Writer, groups []group) error {
	if err := writeUvarint(w, uint64(len(groups))); err != nil {
		return errors.Wrap(err, "failed to write uvarint representing number of groups")
	}

	for _, g := range groups {
		if err := writeUvarint(w, g.quantity); err != nil {
			return errors.Wrap(err, "failed to write uvarint representing quantity")
		}
		if err := writeUvarint(w, uint64(len(g.entries))); err != nil {
			return errors.Wrap(err, "failed to write uvarint representing number of entries")
		}

		for _, entry := range g.entries {
			if err := writeUvarint(w, typeToUint64[entry.Type]); err != nil {
				return errors.Wrap(err, "failed to write uvarint representing card type")
			}
			if err := writeCardID(w, entry.CardID); err != nil {
				return errors.Wrap(err, "failed to write card id")
			}
		}
	}

	return nil
}

func encodeReserve(w io.Writer, reserveCharacterID string) error {
	if reserveCharacterID == "" {
		_, err := w.Write([]byte{0})
		return err
	}

	if _, err := w.Write([]byte{1}); err != nil {
		return err
	}

	return writeCardID(w, reserveCharacterID)
}

func writeCardID(w io.Writer, cardID string) error {
	id, err := uuid.Parse(cardID)
	if err != nil {
		return errors.Wrapf(ErrInvalidCardID, "%q", cardID)
	}

	_, err = w.Write(id[:])
	return err
}

func readCardID(r io.Reader) (string, error) {
	var b [16]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return "", err
	}

	id, err := uuid.FromBytes(b[:])
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

func writeUvarint(w io.Writer, x uint64) (err error) {
	b := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(b, x)
	_, err = w.Write(b[:n])
	return
}
