package repository

import (
	"recommendation-service/internal/model"

	"gorm.io/gorm"
)

// SearchFilter 推荐关系查询条件
// 指针字段为nil表示该条件不参与过滤
type SearchFilter struct {
	ProductID        *int64
	RelatedProductID *int64
	TypeID           *int64
	Status           *bool
}

// RecommendationRepository 推荐关系数据仓储
type RecommendationRepository struct {
	db *gorm.DB
}

// NewRecommendationRepository 创建RecommendationRepository实例
func NewRecommendationRepository(db *gorm.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

// Create 创建推荐关系
func (r *RecommendationRepository) Create(rec *model.Recommendation) error {
	return r.db.Create(rec).Error
}

// Get 根据联合主键获取推荐关系
func (r *RecommendationRepository) Get(productID, relatedProductID int64) (*model.Recommendation, error) {
	var rec model.Recommendation
	err := r.db.Where("product_id = ? AND related_product_id = ?", productID, relatedProductID).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Update 按联合主键更新推荐类型与启用状态
// 使用map更新，保证零值（status=false）也能正常写入
func (r *RecommendationRepository) Update(rec *model.Recommendation) error {
	return r.db.Model(&model.Recommendation{}).
		Where("product_id = ? AND related_product_id = ?", rec.ProductID, rec.RelatedProductID).
		Updates(map[string]interface{}{
			"type_id": rec.TypeID,
			"status":  rec.Status,
		}).Error
}

// Delete 删除指定的推荐关系，返回删除的行数
func (r *RecommendationRepository) Delete(productID, relatedProductID int64) (int64, error) {
	result := r.db.Where("product_id = ? AND related_product_id = ?", productID, relatedProductID).
		Delete(&model.Recommendation{})
	return result.RowsAffected, result.Error
}

// DeleteByProduct 删除某商品的推荐关系，可按类型和状态过滤，返回删除的行数
func (r *RecommendationRepository) DeleteByProduct(productID int64, typeID *int64, status *bool) (int64, error) {
	query := r.db.Where("product_id = ?", productID)
	if typeID != nil {
		query = query.Where("type_id = ?", *typeID)
	}
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	result := query.Delete(&model.Recommendation{})
	return result.RowsAffected, result.Error
}

// Search 按条件查询推荐关系，无条件时返回全部记录
// 结果按 (product_id, related_product_id) 升序排列
func (r *RecommendationRepository) Search(filter SearchFilter) ([]*model.Recommendation, error) {
	query := r.db.Model(&model.Recommendation{})

	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.RelatedProductID != nil {
		query = query.Where("related_product_id = ?", *filter.RelatedProductID)
	}
	if filter.TypeID != nil {
		query = query.Where("type_id = ?", *filter.TypeID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var recs []*model.Recommendation
	err := query.Order("product_id, related_product_id").Find(&recs).Error
	return recs, err
}
