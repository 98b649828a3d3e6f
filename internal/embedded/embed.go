package embedded

import (
	"embed"
)

// Content 包含内嵌的默认配置
// 当外部配置文件不存在时使用。
//
//go:embed config/*.yaml
var Content embed.FS
