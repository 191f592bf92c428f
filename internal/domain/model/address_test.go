package model

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// user1人につきdefault住所は最大1件。アプリ側の付け替えロジックだけでなく
// スキーマ（部分uniqueインデックス）でも保証されていること。
func TestAddressDefaultUniquenessIsEnforcedBySchema(t *testing.T) {
	f, ok := reflect.TypeOf(Address{}).FieldByName("UserID")
	assert.True(t, ok)

	tag := f.Tag.Get("gorm")
	assert.True(t, strings.Contains(tag, "uniqueIndex:uniq_user_default_address"), tag)
	assert.True(t, strings.Contains(tag, "where:is_default"), tag)
}
