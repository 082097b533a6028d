package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"recommendation-service/internal/model"
	"recommendation-service/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupService(t *testing.T) *RecommendationService {
	t.Helper()

	// 独享的共享缓存内存库，连接池内的新连接也能看到同一份数据
	dsn := fmt.Sprintf("file:recservice_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&model.Recommendation{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRecommendationService(repository.NewRecommendationRepository(conn))
}

func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }

func isValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

func TestCreateThenGet(t *testing.T) {
	svc := setupService(t)

	created, err := svc.Create(1, 2, 3, true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ProductID != 1 || created.RelatedProductID != 2 || created.TypeID != 3 || !created.Status {
		t.Fatalf("created = %+v, want {1 2 3 true}", created)
	}

	got, err := svc.Get(1, 2)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *got != *created {
		t.Fatalf("get = %+v, want %+v", got, created)
	}
}

func TestCreateInvalidTypeID(t *testing.T) {
	svc := setupService(t)

	for _, typeID := range []int64{0, 4, -1, 100} {
		_, err := svc.Create(1, 2, typeID, false)
		if !isValidationError(err) {
			t.Errorf("type-id %d: err = %v, want ValidationError", typeID, err)
		}
	}
}

func TestCreateSameProductIDs(t *testing.T) {
	svc := setupService(t)

	_, err := svc.Create(7, 7, 1, true)
	if !isValidationError(err) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestCreateDuplicatePair(t *testing.T) {
	svc := setupService(t)

	if _, err := svc.Create(1, 2, 1, true); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := svc.Create(1, 2, 2, false)
	if !isValidationError(err) {
		t.Fatalf("duplicate create: err = %v, want ValidationError", err)
	}
}

func TestCreateNegativeIDs(t *testing.T) {
	svc := setupService(t)

	// 负数商品ID不做限制
	created, err := svc.Create(-5, -99, 1, false)
	if err != nil {
		t.Fatalf("create with negative ids: %v", err)
	}
	if created.ProductID != -5 || created.RelatedProductID != -99 {
		t.Fatalf("created = %+v, want ids (-5,-99)", created)
	}
}

func TestGetNotFound(t *testing.T) {
	svc := setupService(t)

	_, err := svc.Get(42, 43)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdate(t *testing.T) {
	svc := setupService(t)

	if _, err := svc.Create(1, 2, 1, true); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(1, 2, 2, false)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.TypeID != 2 || updated.Status {
		t.Fatalf("updated = %+v, want type 2 status false", updated)
	}
	// 主键不变
	if updated.ProductID != 1 || updated.RelatedProductID != 2 {
		t.Fatalf("updated keys = (%d,%d), want (1,2)", updated.ProductID, updated.RelatedProductID)
	}

	got, err := svc.Get(1, 2)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TypeID != 2 || got.Status {
		t.Fatalf("persisted = %+v, want type 2 status false", got)
	}
}

func TestUpdateNotFoundDoesNotCreate(t *testing.T) {
	svc := setupService(t)

	_, err := svc.Update(1, 2, 1, true)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	// 更新失败不能留下新记录
	if _, err := svc.Get(1, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after failed update: err = %v, want ErrNotFound", err)
	}
}

func TestUpdateInvalidTypeID(t *testing.T) {
	svc := setupService(t)

	if _, err := svc.Create(1, 2, 1, true); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := svc.Update(1, 2, 4, true)
	if !isValidationError(err) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestToggle(t *testing.T) {
	svc := setupService(t)

	if _, err := svc.Create(1, 2, 1, true); err != nil {
		t.Fatalf("create: %v", err)
	}

	toggled, err := svc.Toggle(1, 2)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if toggled.Status {
		t.Fatal("status = true after first toggle, want false")
	}
	if toggled.TypeID != 1 || toggled.ProductID != 1 || toggled.RelatedProductID != 2 {
		t.Fatalf("toggle must return the full row, got %+v", toggled)
	}

	// 再次翻转恢复原状
	toggled, err = svc.Toggle(1, 2)
	if err != nil {
		t.Fatalf("toggle again: %v", err)
	}
	if !toggled.Status {
		t.Fatal("status = false after second toggle, want true")
	}
}

func TestToggleNotFound(t *testing.T) {
	svc := setupService(t)

	_, err := svc.Toggle(1, 2)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	svc := setupService(t)

	if _, err := svc.Create(1, 2, 1, true); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(1, 2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(1, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete: err = %v, want ErrNotFound", err)
	}

	// 删除不存在的记录同样视为成功
	if err := svc.Delete(1, 2); err != nil {
		t.Fatalf("delete again: %v", err)
	}
}

func TestDeleteByProductRemovesAllForProduct(t *testing.T) {
	svc := setupService(t)

	seeds := []struct {
		pid, relID, typeID int64
		status             bool
	}{
		{5, 1, 1, true},
		{5, 2, 2, false},
		{5, 3, 3, true},
		{6, 1, 1, true},
	}
	for _, s := range seeds {
		if _, err := svc.Create(s.pid, s.relID, s.typeID, s.status); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	// 不带过滤条件时删除该商品的全部推荐
	if err := svc.DeleteByProduct(5, nil, nil); err != nil {
		t.Fatalf("delete by product: %v", err)
	}

	remaining, err := svc.Search(repository.SearchFilter{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ProductID != 6 {
		t.Fatalf("remaining = %d rows, want only product 6", len(remaining))
	}
}

func TestDeleteByProductWithFilters(t *testing.T) {
	svc := setupService(t)

	seeds := []struct {
		pid, relID, typeID int64
		status             bool
	}{
		{1, 2, 1, true},
		{1, 3, 1, false},
		{1, 4, 2, true},
	}
	for _, s := range seeds {
		if _, err := svc.Create(s.pid, s.relID, s.typeID, s.status); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	// 类型+状态组合过滤
	if err := svc.DeleteByProduct(1, int64Ptr(1), boolPtr(true)); err != nil {
		t.Fatalf("delete with filters: %v", err)
	}

	if _, err := svc.Get(1, 2); !errors.Is(err, ErrNotFound) {
		t.Fatal("pair (1,2) should be deleted")
	}
	if _, err := svc.Get(1, 3); err != nil {
		t.Fatalf("pair (1,3) should survive: %v", err)
	}
	if _, err := svc.Get(1, 4); err != nil {
		t.Fatalf("pair (1,4) should survive: %v", err)
	}
}

func TestDeleteByProductInvalidTypeID(t *testing.T) {
	svc := setupService(t)

	err := svc.DeleteByProduct(1, int64Ptr(9), nil)
	if !isValidationError(err) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestSearch(t *testing.T) {
	svc := setupService(t)

	seeds := []struct {
		pid, relID, typeID int64
		status             bool
	}{
		{1, 2, 1, true},
		{1, 3, 2, true},
		{1, 4, 3, false},
		{2, 5, 2, true},
	}
	for _, s := range seeds {
		if _, err := svc.Create(s.pid, s.relID, s.typeID, s.status); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	// 无条件返回全部
	all, err := svc.Search(repository.SearchFilter{})
	if err != nil {
		t.Fatalf("search all: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("len = %d, want 4", len(all))
	}

	// 同一商品的三条记录按类型过滤只剩一条
	byType, err := svc.Search(repository.SearchFilter{
		ProductID: int64Ptr(1),
		TypeID:    int64Ptr(2),
	})
	if err != nil {
		t.Fatalf("search by type: %v", err)
	}
	if len(byType) != 1 || byType[0].RelatedProductID != 3 {
		t.Fatalf("search by type got %d rows, want exactly (1,3)", len(byType))
	}

	// 状态过滤
	inactive, err := svc.Search(repository.SearchFilter{Status: boolPtr(false)})
	if err != nil {
		t.Fatalf("search by status: %v", err)
	}
	if len(inactive) != 1 || inactive[0].RelatedProductID != 4 {
		t.Fatalf("search by status got %d rows, want exactly (1,4)", len(inactive))
	}
}

func TestSearchInvalidFilters(t *testing.T) {
	svc := setupService(t)

	if _, err := svc.Search(repository.SearchFilter{TypeID: int64Ptr(4)}); !isValidationError(err) {
		t.Errorf("invalid type filter: err = %v, want ValidationError", err)
	}

	if _, err := svc.Search(repository.SearchFilter{
		ProductID:        int64Ptr(3),
		RelatedProductID: int64Ptr(3),
	}); !isValidationError(err) {
		t.Errorf("equal id filters: err = %v, want ValidationError", err)
	}
}
