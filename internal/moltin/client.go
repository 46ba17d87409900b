package moltin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmkochetov/pizza_bot/internal/model"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.moltin.com"

// ErrNoPizzerias во flow нет ни одной пиццерии
var ErrNoPizzerias = errors.New("no pizzerias configured")

// Client клиент каталога Moltin. Токен доступа общий для всех
// диалогов и обновляется лениво по истечении срока; одновременное
// обновление из двух горутин безвредно - побеждает последнее.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	clientSecret string
	logger       *zap.Logger

	mu           sync.Mutex
	token        string
	tokenExpires time.Time
}

// NewClient создаёт клиент Moltin
func NewClient(clientID, clientSecret string, logger *zap.Logger) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		baseURL:      defaultBaseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		logger:       logger,
	}
}

// NewClientWithBaseURL создаёт клиент с нестандартным адресом API (для тестов)
func NewClientWithBaseURL(baseURL, clientID, clientSecret string, logger *zap.Logger) *Client {
	c := NewClient(clientID, clientSecret, logger)
	c.baseURL = baseURL
	return c
}

// ensureToken возвращает действующий токен, обновляя его при необходимости
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpires) {
		return c.token, nil
	}

	form := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"grant_type":    {"client_credentials"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/oauth/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("request token: unexpected status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}

	c.token = tr.AccessToken
	c.tokenExpires = time.Unix(tr.Expires, 0)

	c.logger.Info("Moltin access token refreshed",
		zap.Time("expires", c.tokenExpires))

	return c.token, nil
}

// doJSON выполняет авторизованный запрос с повторами при временных
// сбоях (сетевая ошибка или 5xx) и разбирает ответ в out
func (c *Client) doJSON(ctx context.Context, method, path string, body []byte, out interface{}) error {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}

	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(200*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return fmt.Errorf("build request %s %s: %w", method, path, err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("request %s %s: %w", method, path, err))
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("request %s %s: status %d", method, path, resp.StatusCode))
		}
		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("request %s %s: status %d", method, path, resp.StatusCode)
		}

		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response %s %s: %w", method, path, err)
		}
		return nil
	})
}

// ListProducts возвращает каталог пицц
func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var pr productsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v2/products", nil, &pr); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products := make([]model.Product, 0, len(pr.Data))
	for _, p := range pr.Data {
		var price int
		if len(p.Price) > 0 {
			price = p.Price[0].Amount
		}
		products = append(products, model.Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       price,
			ImageID:     p.Relationships.MainImage.Data.ID,
		})
	}

	return products, nil
}

// ImageURL возвращает ссылку на изображение по id файла
func (c *Client) ImageURL(ctx context.Context, imageID string) (string, error) {
	var fr fileResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v2/files/"+imageID, nil, &fr); err != nil {
		return "", fmt.Errorf("get image url: %w", err)
	}
	return fr.Data.Link.Href, nil
}

// cartRef корзины именуются по chat id клиента
func cartRef(chatID int64) string {
	return fmt.Sprintf("tg-%d", chatID)
}

// AddToCart добавляет пиццу в удалённую корзину.
// Повторное добавление того же товара увеличивает количество
// существующей строки, а не создаёт новую.
func (c *Client) AddToCart(ctx context.Context, chatID int64, productID string, quantity int) error {
	payload, err := json.Marshal(map[string]interface{}{
		"data": map[string]interface{}{
			"id":       productID,
			"type":     "cart_item",
			"quantity": quantity,
		},
	})
	if err != nil {
		return fmt.Errorf("encode cart item: %w", err)
	}

	path := fmt.Sprintf("/v2/carts/%s/items", cartRef(chatID))
	if err := c.doJSON(ctx, http.MethodPost, path, payload, nil); err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}

	return nil
}

// RemoveFromCart удаляет строку из удалённой корзины
func (c *Client) RemoveFromCart(ctx context.Context, chatID int64, itemID string) error {
	path := fmt.Sprintf("/v2/carts/%s/items/%s", cartRef(chatID), itemID)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	return nil
}

// ClearCart удаляет все строки удалённой корзины
func (c *Client) ClearCart(ctx context.Context, chatID int64) error {
	path := fmt.Sprintf("/v2/carts/%s/items", cartRef(chatID))
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// CartSummary возвращает строки удалённой корзины и итоговую сумму
func (c *Client) CartSummary(ctx context.Context, chatID int64) ([]model.CartLine, int, error) {
	var cr cartItemsResponse
	path := fmt.Sprintf("/v2/carts/%s/items", cartRef(chatID))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &cr); err != nil {
		return nil, 0, fmt.Errorf("cart summary: %w", err)
	}

	lines := make([]model.CartLine, 0, len(cr.Data))
	for _, item := range cr.Data {
		lines = append(lines, model.CartLine{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.Amount,
			LineTotal: item.Value.Amount,
		})
	}

	return lines, cr.Meta.DisplayPrice.WithTax.Amount, nil
}

// NearestPizzeria находит ближайшую к координатам клиента пиццерию
// и расстояние до неё в километрах. Стоимость доставки заполняется
// по тарифной сетке; доступность доставки для расстояния проверяется
// через DeliveryFeeFor.
func (c *Client) NearestPizzeria(ctx context.Context, lon, lat float64) (*model.Pizzeria, float64, error) {
	var er pizzeriaEntriesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v2/flows/pizzeria/entries", nil, &er); err != nil {
		return nil, 0, fmt.Errorf("list pizzerias: %w", err)
	}

	if len(er.Data) == 0 {
		return nil, 0, ErrNoPizzerias
	}

	var nearest pizzeriaEntry
	minDistance := math.MaxFloat64
	for _, entry := range er.Data {
		d := haversineKM(lat, lon, entry.Latitude, entry.Longitude)
		if d < minDistance {
			minDistance = d
			nearest = entry
		}
	}

	fee, _ := DeliveryFeeFor(minDistance)

	return &model.Pizzeria{
		Address:     nearest.Address,
		Latitude:    nearest.Latitude,
		Longitude:   nearest.Longitude,
		CourierID:   nearest.CourierID,
		DeliveryFee: fee,
		CustomerLat: lat,
		CustomerLon: lon,
	}, minDistance, nil
}

// Тарифная сетка доставки по расстоянию до пиццерии
const (
	freeDeliveryKM  = 0.5
	nearDeliveryKM  = 5.0
	maxDeliveryKM   = 20.0
	nearDeliveryFee = 100
	farDeliveryFee  = 300
)

// DeliveryFeeFor возвращает стоимость доставки для расстояния.
// Второе значение false - доставка на такое расстояние недоступна.
func DeliveryFeeFor(distanceKM float64) (int, bool) {
	switch {
	case distanceKM <= freeDeliveryKM:
		return 0, true
	case distanceKM <= nearDeliveryKM:
		return nearDeliveryFee, true
	case distanceKM <= maxDeliveryKM:
		return farDeliveryFee, true
	default:
		return 0, false
	}
}

// haversineKM расстояние между двумя точками на сфере в километрах
func haversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKM = 6371.0

	rad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKM * math.Asin(math.Sqrt(a))
}
