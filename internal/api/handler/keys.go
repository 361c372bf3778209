package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/trigg3rX/keybrowser/internal/browser"
	"github.com/trigg3rX/keybrowser/internal/scanner"
)

const (
	EncodingUTF8   = "utf8"
	EncodingBuffer = "buffer"
)

var errBadRequest = errors.New("bad request")

// bufferName is how binary-safe clients receive a key name.
type bufferName struct {
	Type string `json:"type"`
	Data []int  `json:"data"`
}

type keyResponse struct {
	Name interface{} `json:"name"`
	Type string      `json:"type,omitempty"`
	TTL  *int64      `json:"ttl,omitempty"`
	Size *int64      `json:"size,omitempty"`
}

type nodeResponse struct {
	Total   *int64        `json:"total"`
	Scanned int64         `json:"scanned"`
	Cursor  uint64        `json:"cursor"`
	Keys    []keyResponse `json:"keys"`
	Host    string        `json:"host,omitempty"`
	Port    int           `json:"port,omitempty"`
}

type keysResponse struct {
	NextCursor string         `json:"next_cursor"`
	Nodes      []nodeResponse `json:"nodes"`
}

// GetKeys serves GET /keys?cursor=&count=&match=&type=&keys_info=&encoding=
func (h *Handler) GetKeys(c *gin.Context) {
	req, encoding, err := parseScanRequest(c)
	if err != nil {
		h.respondError(c, err, req)
		return
	}

	page, err := h.browser.GetKeys(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err, req)
		return
	}
	c.JSON(http.StatusOK, renderPage(page, encoding))
}

// GetTotal serves GET /keys/total
func (h *Handler) GetTotal(c *gin.Context) {
	total, err := h.browser.Total(c.Request.Context())
	if err != nil {
		h.respondError(c, err, scanner.ScanRequest{})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total})
}

func parseScanRequest(c *gin.Context) (scanner.ScanRequest, string, error) {
	req := scanner.ScanRequest{
		Cursor:   c.DefaultQuery("cursor", "0"),
		Match:    c.Query("match"),
		Type:     c.Query("type"),
		KeysInfo: true,
	}

	if raw := c.Query("count"); raw != "" {
		count, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return req, "", fmt.Errorf("%w: count must be an integer", errBadRequest)
		}
		req.Count = count
	}
	if raw := c.Query("keys_info"); raw != "" {
		keysInfo, err := strconv.ParseBool(raw)
		if err != nil {
			return req, "", fmt.Errorf("%w: keys_info must be a boolean", errBadRequest)
		}
		req.KeysInfo = keysInfo
	}

	encoding := c.DefaultQuery("encoding", EncodingUTF8)
	if encoding != EncodingUTF8 && encoding != EncodingBuffer {
		return req, "", fmt.Errorf("%w: encoding must be %s or %s", errBadRequest, EncodingUTF8, EncodingBuffer)
	}
	return req, encoding, nil
}

func renderPage(page *browser.Page, encoding string) keysResponse {
	resp := keysResponse{
		NextCursor: page.NextCursor,
		Nodes:      make([]nodeResponse, len(page.Nodes)),
	}
	for i, n := range page.Nodes {
		keys := make([]keyResponse, len(n.Keys))
		for j, k := range n.Keys {
			keys[j] = keyResponse{
				Name: renderName(k.Name, encoding),
				Type: k.Type,
				TTL:  k.TTL,
				Size: k.Size,
			}
		}
		resp.Nodes[i] = nodeResponse{
			Total:   n.Total,
			Scanned: n.Scanned,
			Cursor:  n.Cursor,
			Keys:    keys,
			Host:    n.Host,
			Port:    n.Port,
		}
	}
	return resp
}

func renderName(name []byte, encoding string) interface{} {
	if encoding != EncodingBuffer {
		return string(name)
	}
	data := make([]int, len(name))
	for i, b := range name {
		data[i] = int(b)
	}
	return bufferName{Type: "Buffer", Data: data}
}
