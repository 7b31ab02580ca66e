package http

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"aliasgate/backend/internal/domain"
	"aliasgate/backend/internal/monitoring"
	"aliasgate/backend/internal/service"
)

// pageIDRe page_id 必须是纯数字
var pageIDRe = regexp.MustCompile(`^\d+$`)

// defaultMailboxes 兼容接口要求的静态收件箱列表。
// 网关的转发目标在服务端配置，不对 API 暴露。
var defaultMailboxes = []gin.H{{"id": 1, "email": "default"}}

// AliasHandler 别名管理接口的 HTTP 处理器。
type AliasHandler struct {
	aliases *service.AliasService
	suggest *service.SuggestionEngine
	domain  string
	metrics *monitoring.Metrics
}

// NewAliasHandler 创建处理器。
func NewAliasHandler(aliases *service.AliasService, suggest *service.SuggestionEngine, domainName string, metrics *monitoring.Metrics) *AliasHandler {
	return &AliasHandler{
		aliases: aliases,
		suggest: suggest,
		domain:  domainName,
		metrics: metrics,
	}
}

// APIKey GET /api/api_key
func (h *AliasHandler) APIKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// UserInfo GET /api/user_info
func (h *AliasHandler) UserInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":       "aliasgate",
		"is_premium": true,
	})
}

// Mailboxes GET /api/mailboxes
func (h *AliasHandler) Mailboxes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"mailboxes": defaultMailboxes})
}

// Options GET /api/v4/alias/options
// 返回可用后缀和基于来源主机名的前缀建议。
func (h *AliasHandler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"suffixes":          [][]string{{"@" + h.domain}},
		"prefix_suggestion": h.suggest.Suggest(c.Query("hostname")),
		"can_create":        true,
	})
}

// List GET /api/v2/aliases?page_id=N
// 返回裸 JSON 数组，每项含完整地址和启用状态。
func (h *AliasHandler) List(c *gin.Context) {
	pageID := c.Query("page_id")
	if !pageIDRe.MatchString(pageID) {
		c.String(http.StatusBadRequest, "Bad Request")
		return
	}
	page, err := strconv.Atoi(pageID)
	if err != nil {
		c.String(http.StatusBadRequest, "Bad Request")
		return
	}

	aliases, err := h.aliases.List(page)
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	items := make([]gin.H, 0, len(aliases))
	for _, alias := range aliases {
		items = append(items, gin.H{
			"email":   alias.Address(),
			"enabled": alias.Active,
		})
	}
	c.JSON(http.StatusOK, items)
}

// CreateRandom POST /api/alias/random/new?hostname=...
func (h *AliasHandler) CreateRandom(c *gin.Context) {
	var hostname *string
	if value := c.Query("hostname"); value != "" {
		hostname = &value
	}

	alias, err := h.aliases.Allocate(hostname)
	if errors.Is(err, service.ErrAliasSpaceExhausted) {
		_ = c.Error(err)
		c.String(http.StatusConflict, "Conflict")
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.metrics.AliasesAllocated.Inc()
	c.JSON(http.StatusCreated, aliasCreatedBody(alias))
}

type customAliasRequest struct {
	AliasPrefix *string `json:"alias_prefix"`
}

// CreateCustom POST /api/v2/alias/custom/new
func (h *AliasHandler) CreateCustom(c *gin.Context) {
	var req customAliasRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.AliasPrefix == nil {
		c.String(http.StatusBadRequest, "Bad Request")
		return
	}

	alias, err := h.aliases.CreateCustom(*req.AliasPrefix)
	switch {
	case errors.Is(err, service.ErrAliasShapeInvalid):
		c.String(http.StatusBadRequest, "Bad Request")
		return
	case errors.Is(err, service.ErrAliasTaken):
		c.String(http.StatusConflict, "Conflict")
		return
	case err != nil:
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.metrics.AliasesAllocated.Inc()
	c.JSON(http.StatusCreated, aliasCreatedBody(alias))
}

// Delete DELETE /api/aliases/:address
// 地址里的 @ 允许以 %40 形式出现；未知或外部域名的地址按 404 处理。
func (h *AliasHandler) Delete(c *gin.Context) {
	address := strings.TrimPrefix(c.Param("address"), "/")
	address = strings.ReplaceAll(address, "%40", "@")

	local, domainName, found := strings.Cut(address, "@")
	if !found || !domain.ValidAliasShape(local) {
		c.String(http.StatusNotFound, "Not Found")
		return
	}

	err := h.aliases.Delete(local, domainName)
	if errors.Is(err, service.ErrDomainMismatch) {
		c.String(http.StatusNotFound, "Not Found")
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.metrics.AliasesDeleted.Inc()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// aliasCreatedBody 组装创建成功的兼容响应体。
// alias、email、id 三个字段都是完整地址，name 是本地部分。
func aliasCreatedBody(alias *domain.Alias) gin.H {
	formatted := alias.Address()
	return gin.H{
		"alias":     formatted,
		"name":      alias.Alias,
		"mailboxes": defaultMailboxes,
		"email":     formatted,
		"id":        formatted,
	}
}
