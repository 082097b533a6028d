package service

import (
	"errors"

	"recommendation-service/internal/model"
	"recommendation-service/internal/repository"

	"gorm.io/gorm"
)

// ErrNotFound 推荐关系不存在
var ErrNotFound = errors.New("recommendation does not exist")

// ValidationError 请求参数校验错误
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// RecommendationService 推荐关系服务
type RecommendationService struct {
	recommendationRepo *repository.RecommendationRepository
}

// NewRecommendationService 创建RecommendationService实例
func NewRecommendationService(repo *repository.RecommendationRepository) *RecommendationService {
	return &RecommendationService{recommendationRepo: repo}
}

// Create 创建推荐关系
func (s *RecommendationService) Create(productID, relatedProductID, typeID int64, status bool) (*model.Recommendation, error) {
	// 校验推荐类型取值
	if !model.ValidTypeID(typeID) {
		return nil, ValidationError("invalid type-id: must be between 1 and 3")
	}

	// 商品不能推荐自己
	if productID == relatedProductID {
		return nil, ValidationError("product-id and related-product-id must be different")
	}

	// 同一对商品最多存在一条推荐
	if _, err := s.recommendationRepo.Get(productID, relatedProductID); err == nil {
		return nil, ValidationError("recommendation for the given product pair already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rec := &model.Recommendation{
		ProductID:        productID,
		RelatedProductID: relatedProductID,
		TypeID:           typeID,
		Status:           status,
	}

	if err := s.recommendationRepo.Create(rec); err != nil {
		// 并发创建同一对商品时的主键冲突兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ValidationError("recommendation for the given product pair already exists")
		}
		return nil, err
	}

	return rec, nil
}

// Get 获取指定商品对的推荐关系
func (s *RecommendationService) Get(productID, relatedProductID int64) (*model.Recommendation, error) {
	rec, err := s.recommendationRepo.Get(productID, relatedProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// Update 更新推荐类型与启用状态（不存在时不创建）
func (s *RecommendationService) Update(productID, relatedProductID, typeID int64, status bool) (*model.Recommendation, error) {
	if !model.ValidTypeID(typeID) {
		return nil, ValidationError("invalid type-id: must be between 1 and 3")
	}

	rec, err := s.Get(productID, relatedProductID)
	if err != nil {
		return nil, err
	}

	rec.TypeID = typeID
	rec.Status = status
	if err := s.recommendationRepo.Update(rec); err != nil {
		return nil, err
	}

	return rec, nil
}

// Toggle 翻转推荐的启用状态
func (s *RecommendationService) Toggle(productID, relatedProductID int64) (*model.Recommendation, error) {
	rec, err := s.Get(productID, relatedProductID)
	if err != nil {
		return nil, err
	}

	rec.Status = !rec.Status
	if err := s.recommendationRepo.Update(rec); err != nil {
		return nil, err
	}

	return rec, nil
}

// Delete 删除指定商品对的推荐关系（幂等，不存在也视为成功）
func (s *RecommendationService) Delete(productID, relatedProductID int64) error {
	_, err := s.recommendationRepo.Delete(productID, relatedProductID)
	return err
}

// DeleteByProduct 删除某商品的推荐关系，可按类型和状态过滤
// 不带任何过滤条件时删除该商品的全部推荐
func (s *RecommendationService) DeleteByProduct(productID int64, typeID *int64, status *bool) error {
	if typeID != nil && !model.ValidTypeID(*typeID) {
		return ValidationError("invalid type-id: must be between 1 and 3")
	}

	_, err := s.recommendationRepo.DeleteByProduct(productID, typeID, status)
	return err
}

// Search 按条件查询推荐关系，条件为空时返回全部
func (s *RecommendationService) Search(filter repository.SearchFilter) ([]*model.Recommendation, error) {
	if filter.TypeID != nil && !model.ValidTypeID(*filter.TypeID) {
		return nil, ValidationError("invalid type-id: must be between 1 and 3")
	}
	if filter.ProductID != nil && filter.RelatedProductID != nil && *filter.ProductID == *filter.RelatedProductID {
		return nil, ValidationError("product-id and related-product-id must be different")
	}

	return s.recommendationRepo.Search(filter)
}
