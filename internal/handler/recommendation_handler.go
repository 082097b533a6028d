package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"recommendation-service/internal/model"
	"recommendation-service/internal/repository"
	"recommendation-service/internal/service"
	dbPkg "recommendation-service/pkg/db"
	"recommendation-service/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// statusValue 宽松的布尔类型，兼容客户端的多种status写法
// 接受JSON布尔、"True"/"false"等字符串、数字（非零为真）和null
type statusValue bool

func (s *statusValue) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*s = statusValue(t)
	case string:
		*s = statusValue(strings.EqualFold(t, "true"))
	case float64:
		*s = statusValue(t != 0)
	case nil:
		*s = false
	default:
		return errors.New("status must be a boolean")
	}
	return nil
}

// createRequest 创建推荐请求体
type createRequest struct {
	ProductID        *int64       `json:"product-id"`
	RelatedProductID *int64       `json:"related-product-id"`
	TypeID           *int64       `json:"type-id"`
	Status           *statusValue `json:"status"`
}

// updateRequest 更新推荐请求体
type updateRequest struct {
	TypeID *int64       `json:"type-id"`
	Status *statusValue `json:"status"`
}

// RecommendationHandler 推荐关系处理器
type RecommendationHandler struct {
	service *service.RecommendationService
}

// NewRecommendationHandler 创建RecommendationHandler实例
func NewRecommendationHandler(s *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{service: s}
}

// parsePathID 解析路径中的商品ID
// 路径段不是非负整数时视为资源不存在，返回404
func parsePathID(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 63)
	if err != nil {
		response.NotFound(c, "invalid "+name+" in path")
		return 0, false
	}
	return int64(v), true
}

// checkJSONContentType 校验带请求体的请求必须声明JSON类型
func checkJSONContentType(c *gin.Context) bool {
	if c.ContentType() != "application/json" {
		response.UnsupportedMediaType(c, "Content-Type must be application/json")
		return false
	}
	return true
}

// renderError 将服务层错误映射为HTTP状态码
func renderError(c *gin.Context, err error) {
	var ve service.ValidationError
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.As(err, &ve):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err.Error())
	}
}

// Create 创建推荐关系
func (h *RecommendationHandler) Create(c *gin.Context) {
	if !checkJSONContentType(c) {
		return
	}

	// 绑定请求参数
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// 关键字段缺失检查
	if req.ProductID == nil {
		response.BadRequest(c, "invalid recommendation: missing product-id")
		return
	}
	if req.RelatedProductID == nil {
		response.BadRequest(c, "invalid recommendation: missing related-product-id")
		return
	}

	// type-id缺省为1（向上销售），status缺省为false
	typeID := model.TypeIDUpSell
	if req.TypeID != nil {
		typeID = *req.TypeID
	}
	status := false
	if req.Status != nil {
		status = bool(*req.Status)
	}

	rec, err := h.service.Create(*req.ProductID, *req.RelatedProductID, typeID, status)
	if err != nil {
		renderError(c, err)
		return
	}

	location := fmt.Sprintf("/api/recommendations/%d/%d", rec.ProductID, rec.RelatedProductID)
	response.Created(c, location, rec)
}

// Get 获取指定商品对的推荐关系
func (h *RecommendationHandler) Get(c *gin.Context) {
	productID, ok := parsePathID(c, "product_id")
	if !ok {
		return
	}
	relatedProductID, ok := parsePathID(c, "related_product_id")
	if !ok {
		return
	}

	rec, err := h.service.Get(productID, relatedProductID)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, rec)
}

// Update 更新推荐类型与启用状态，主键来自路径，不存在时不创建
func (h *RecommendationHandler) Update(c *gin.Context) {
	productID, ok := parsePathID(c, "product_id")
	if !ok {
		return
	}
	relatedProductID, ok := parsePathID(c, "related_product_id")
	if !ok {
		return
	}

	if !checkJSONContentType(c) {
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// 更新要求同时提供type-id和status
	if req.TypeID == nil {
		response.BadRequest(c, "invalid recommendation: missing type-id")
		return
	}
	if req.Status == nil {
		response.BadRequest(c, "invalid recommendation: missing status")
		return
	}

	rec, err := h.service.Update(productID, relatedProductID, *req.TypeID, bool(*req.Status))
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, rec)
}

// Toggle 翻转推荐的启用状态
func (h *RecommendationHandler) Toggle(c *gin.Context) {
	productID, ok := parsePathID(c, "product_id")
	if !ok {
		return
	}
	relatedProductID, ok := parsePathID(c, "related_product_id")
	if !ok {
		return
	}

	rec, err := h.service.Toggle(productID, relatedProductID)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, rec)
}

// Delete 删除指定商品对的推荐关系，幂等
func (h *RecommendationHandler) Delete(c *gin.Context) {
	productID, ok := parsePathID(c, "product_id")
	if !ok {
		return
	}
	relatedProductID, ok := parsePathID(c, "related_product_id")
	if !ok {
		return
	}

	if err := h.service.Delete(productID, relatedProductID); err != nil {
		renderError(c, err)
		return
	}

	response.NoContent(c)
}

// DeleteByProduct 删除某商品的推荐关系
// 可用type-id和status查询参数过滤，不带参数时删除该商品的全部推荐
func (h *RecommendationHandler) DeleteByProduct(c *gin.Context) {
	productID, ok := parsePathID(c, "product_id")
	if !ok {
		return
	}

	var typeID *int64
	if raw := c.Query("type-id"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.BadRequest(c, "invalid type-id: must be a number")
			return
		}
		typeID = &v
	}

	var status *bool
	if raw := c.Query("status"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(c, "invalid status: must be true or false")
			return
		}
		status = &v
	}

	if err := h.service.DeleteByProduct(productID, typeID, status); err != nil {
		renderError(c, err)
		return
	}

	response.NoContent(c)
}

// DeleteAll 删除某商品的全部推荐关系
func (h *RecommendationHandler) DeleteAll(c *gin.Context) {
	productID, ok := parsePathID(c, "product_id")
	if !ok {
		return
	}

	if err := h.service.DeleteByProduct(productID, nil, nil); err != nil {
		renderError(c, err)
		return
	}

	response.NoContent(c)
}

// Search 按条件查询推荐关系，条件为空时返回全部
func (h *RecommendationHandler) Search(c *gin.Context) {
	var filter repository.SearchFilter

	if raw := c.Query("product-id"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.BadRequest(c, "invalid product-id: must be a number")
			return
		}
		filter.ProductID = &v
	}
	if raw := c.Query("related-product-id"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.BadRequest(c, "invalid related-product-id: must be a number")
			return
		}
		filter.RelatedProductID = &v
	}
	if raw := c.Query("type-id"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.BadRequest(c, "invalid type-id: must be a number")
			return
		}
		filter.TypeID = &v
	}
	if raw := c.Query("status"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(c, "invalid status: must be true or false")
			return
		}
		filter.Status = &v
	}

	recs, err := h.service.Search(filter)
	if err != nil {
		renderError(c, err)
		return
	}

	// 空结果返回[]而不是null
	if recs == nil {
		recs = []*model.Recommendation{}
	}

	response.Success(c, recs)
}

// HealthCheck 健康检查，确认服务和数据库连接正常
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := dbPkg.HealthCheck(db); err != nil {
			response.InternalError(c, "database unavailable")
			return
		}
		response.Success(c, response.MessageBody{Message: "Healthy"})
	}
}
