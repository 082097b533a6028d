package model

// Recommendation 商品推荐关系
// 以 (ProductID, RelatedProductID) 作为联合主键，一对商品最多存在一条推荐记录
// TypeID: 1-向上销售(up-sell) 2-交叉销售(cross-sell) 3-配件(accessory)
// Status: 推荐是否启用

type Recommendation struct {
	ProductID        int64 `gorm:"primaryKey;autoIncrement:false;comment:商品ID" json:"product-id"`
	RelatedProductID int64 `gorm:"primaryKey;autoIncrement:false;comment:被推荐商品ID" json:"related-product-id"`
	TypeID           int64 `gorm:"not null;default:1;comment:推荐类型(1向上销售,2交叉销售,3配件)" json:"type-id"`
	Status           bool  `gorm:"not null;default:false;comment:是否启用" json:"status"`
}

// TableName 指定表名（全局配置使用单数表名）
func (Recommendation) TableName() string { return "recommendation" }

// 推荐类型取值
const (
	TypeIDUpSell    int64 = 1 // 向上销售
	TypeIDCrossSell int64 = 2 // 交叉销售
	TypeIDAccessory int64 = 3 // 配件
)

// ValidTypeID 判断推荐类型是否在合法取值范围内
func ValidTypeID(typeID int64) bool {
	return typeID >= TypeIDUpSell && typeID <= TypeIDAccessory
}
