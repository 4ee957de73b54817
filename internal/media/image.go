package media

import (
	"encoding/base64"
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize 解码后的图片大小上限
const MaxImageSize = 10 << 20

var (
	ErrInvalidImage     = errors.New("图片必须为 base64 编码的 data URI")
	ErrUnsupportedImage = errors.New("不支持的图片格式")
	ErrImageTooLarge    = errors.New("图片过大")
)

var extensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Image 解码后的上传图片
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

// DecodeDataURI 解析 "data:image/png;base64,...." 形式的图片
func DecodeDataURI(s string) (*Image, error) {
	header, payload, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, ErrInvalidImage
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize+3 {
		return nil, ErrImageTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalidImage
	}
	if len(data) == 0 {
		return nil, ErrInvalidImage
	}
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	// 以内容嗅探为准，不信任声明的类型
	contentType := http.DetectContentType(data)
	ext, ok := extensions[contentType]
	if !ok {
		return nil, ErrUnsupportedImage
	}

	return &Image{Data: data, ContentType: contentType, Ext: ext}, nil
}

// ObjectName 生成对象存储路径，例如 recipes/images/<uuid>.png
func (img *Image) ObjectName(dir string) string {
	return path.Join(dir, uuid.NewString()+"."+img.Ext)
}
