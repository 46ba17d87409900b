package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://geocode-maps.yandex.ru/1.x/"

// ErrNoMatch геокодер не нашёл ни одного совпадения по адресу.
// Ожидаемая ошибка: пользователь получает просьбу повторить ввод.
var ErrNoMatch = errors.New("address not found")

// Client клиент геокодера Яндекса
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient создаёт клиент геокодера
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
	}
}

// NewClientWithBaseURL создаёт клиент с нестандартным адресом API (для тестов)
func NewClientWithBaseURL(baseURL, apiKey string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

type geocodeResponse struct {
	Response struct {
		GeoObjectCollection struct {
			FeatureMember []struct {
				GeoObject struct {
					Point struct {
						Pos string `json:"pos"` // "долгота широта"
					} `json:"Point"`
				} `json:"GeoObject"`
			} `json:"featureMember"`
		} `json:"GeoObjectCollection"`
	} `json:"response"`
}

// Resolve переводит адрес в координаты (долгота, широта)
func (c *Client) Resolve(ctx context.Context, address string) (lon, lat float64, err error) {
	params := url.Values{
		"apikey":  {c.apiKey},
		"geocode": {address},
		"format":  {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return 0, 0, fmt.Errorf("build geocode request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocode request: unexpected status %d", resp.StatusCode)
	}

	var gr geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return 0, 0, fmt.Errorf("decode geocode response: %w", err)
	}

	members := gr.Response.GeoObjectCollection.FeatureMember
	if len(members) == 0 {
		return 0, 0, ErrNoMatch
	}

	parts := strings.Fields(members[0].GeoObject.Point.Pos)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("unexpected point format %q", members[0].GeoObject.Point.Pos)
	}

	lon, err = strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse longitude: %w", err)
	}
	lat, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse latitude: %w", err)
	}

	return lon, lat, nil
}
