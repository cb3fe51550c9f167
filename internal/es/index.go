package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"

	"github.com/Skotchmaster/storefront/internal/models"
)

// ProductIndex keeps one document per product, keyed by product id.
type ProductIndex struct {
	Client *elasticsearch.Client
	Name   string
}

func NewProductIndex(client *elasticsearch.Client, name string) *ProductIndex {
	return &ProductIndex{Client: client, Name: name}
}

const productMapping = `{
  "mappings": {
    "properties": {
      "product_id":    {"type": "long"},
      "product_name":  {"type": "text"},
      "brand_name":    {"type": "text"},
      "category_name": {"type": "text"},
      "model_year":    {"type": "integer"},
      "list_price":    {"type": "scaled_float", "scaling_factor": 100}
    }
  }
}`

func responseError(op string, res *esapi.Response) error {
	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("elasticsearch %s: %s: %s", op, res.Status(), bytes.TrimSpace(body))
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (i *ProductIndex) EnsureIndex(ctx context.Context) error {
	res, err := i.Client.Indices.Exists([]string{i.Name}, i.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return err
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = i.Client.Indices.Create(i.Name,
		i.Client.Indices.Create.WithContext(ctx),
		i.Client.Indices.Create.WithBody(bytes.NewBufferString(productMapping)),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("create index", res)
	}
	return nil
}

func (i *ProductIndex) IndexProduct(ctx context.Context, row models.ProductRow) error {
	body, err := json.Marshal(row)
	if err != nil {
		return err
	}

	res, err := i.Client.Index(i.Name, bytes.NewReader(body),
		i.Client.Index.WithContext(ctx),
		i.Client.Index.WithDocumentID(strconv.FormatUint(uint64(row.ProductID), 10)),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index", res)
	}
	return nil
}

// DeleteProduct treats a missing document as already deleted.
func (i *ProductIndex) DeleteProduct(ctx context.Context, id uint) error {
	res, err := i.Client.Delete(i.Name, strconv.FormatUint(uint64(id), 10), i.Client.Delete.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete", res)
	}
	return nil
}

// SearchProducts returns the total hit count and the ids of the requested page, best match first.
func (i *ProductIndex) SearchProducts(ctx context.Context, q string, from, size int) (int64, []uint, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"product_name^2", "brand_name", "category_name"},
				"fuzziness": "AUTO",
			},
		},
		"from":    from,
		"size":    size,
		"_source": false,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := i.Client.Search(
		i.Client.Search.WithContext(ctx),
		i.Client.Search.WithIndex(i.Name),
		i.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, responseError("search", res)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	ids := make([]uint, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		id, err := strconv.ParseUint(h.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return r.Hits.Total.Value, ids, nil
}
