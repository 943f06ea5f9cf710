package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"storefront/internal/domain"
)

var (
	variantBlobKeys   = []string{"variant_options", "variantOptions", "variants", "variant_prices", "length_prices", "carat_prices", "teeth_prices", "price_table"}
	variantKeyFields  = []string{"variantKey", "variant_key", "key", "length", "carat", "carat_weight", "teeth", "tooth_count", "label"}
	variantPriceField = []string{"price", "price_cents", "amount"}
	priceIDFields     = []string{"processorPriceId", "processor_price_id", "stripe_price_id", "stripePriceId", "price_id", "priceId"}
)

var errVariantShape = errors.New("unsupported variant table shape")

// parseVariants turns the loosely typed variant table of a row into ordered
// options. Any parse failure yields no options and a non-nil error for logging.
func parseVariants(raw RawRecord) ([]domain.VariantOption, string, error) {
	v, field, ok := raw.first(variantBlobKeys...)
	if !ok {
		return nil, "", nil
	}
	decoded, err := decodeBlob(v)
	if err != nil {
		return nil, field, err
	}
	var opts []domain.VariantOption
	switch t := decoded.(type) {
	case nil:
		return nil, field, nil
	case []any:
		opts, err = variantsFromList(t)
	case map[string]any:
		opts, err = variantsFromMap(t)
	default:
		err = fmt.Errorf("%w: %T", errVariantShape, decoded)
	}
	if err != nil {
		return nil, field, err
	}
	return dedupeOptions(opts), field, nil
}

func decodeBlob(v any) (any, error) {
	var data []byte
	switch t := v.(type) {
	case string:
		data = []byte(t)
	case []byte:
		data = t
	case json.RawMessage:
		data = t
	default:
		return v, nil
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode variant table: %w", err)
	}
	return out, nil
}

func variantsFromList(items []any) ([]domain.VariantOption, error) {
	out := make([]domain.VariantOption, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: entry %d is %T", errVariantShape, i, item)
		}
		entry := RawRecord(obj)
		key := entry.text(variantKeyFields...)
		if key == "" {
			continue
		}
		price, _ := entry.price(variantPriceField...)
		out = append(out, domain.VariantOption{
			VariantKey:       key,
			Price:            price,
			ProcessorPriceID: entry.text(priceIDFields...),
		})
	}
	return out, nil
}

// variantsFromMap handles {"18\"": {"price": 1000, "price_id": "..."}} and
// {"18\"": 1000}. Keys are emitted in natural order.
func variantsFromMap(m map[string]any) ([]domain.VariantOption, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return naturalLess(keys[i], keys[j]) })

	out := make([]domain.VariantOption, 0, len(keys))
	for _, k := range keys {
		key := cleanText(k)
		if key == "" {
			continue
		}
		opt := domain.VariantOption{VariantKey: key}
		switch t := m[k].(type) {
		case map[string]any:
			entry := RawRecord(t)
			opt.Price, _ = entry.price(variantPriceField...)
			opt.ProcessorPriceID = entry.text(priceIDFields...)
		default:
			if n, ok := asInt(t); ok && n >= 0 {
				opt.Price = n
			}
		}
		out = append(out, opt)
	}
	return out, nil
}

func dedupeOptions(opts []domain.VariantOption) []domain.VariantOption {
	if len(opts) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(opts))
	out := opts[:0]
	for _, o := range opts {
		if _, dup := seen[o.VariantKey]; dup {
			continue
		}
		seen[o.VariantKey] = struct{}{}
		out = append(out, o)
	}
	return out
}

// naturalLess orders keys by leading number ("7 teeth" < "10 teeth"), then text.
func naturalLess(a, b string) bool {
	na, okA := leadingNumber(a)
	nb, okB := leadingNumber(b)
	switch {
	case okA && okB && na != nb:
		return na < nb
	case okA != okB:
		return okA
	}
	return a < b
}

func leadingNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	return f, err == nil
}
