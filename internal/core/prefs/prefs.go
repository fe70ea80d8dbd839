package prefs

// UserPrefs 使用者飲食偏好，外部持久化、此處只讀。
// 未提供時的預設值：耐受乳製品、無 FODMAP/蔥蒜敏感、公制單位。
type UserPrefs struct {
	DairyTolerant   *bool  `json:"dairy_tolerant,omitempty"` // nil 視為耐受
	FodmapSensitive bool   `json:"fodmap_sensitive,omitempty"`
	AlliumSensitive bool   `json:"allium_sensitive,omitempty"`
	Units           string `json:"units,omitempty"`
}

// Defaults 回傳預設偏好
func Defaults() *UserPrefs {
	return &UserPrefs{Units: "metric"}
}

// ToleratesDairy 是否耐受乳製品，未指定時視為耐受
func (p *UserPrefs) ToleratesDairy() bool {
	if p == nil || p.DairyTolerant == nil {
		return true
	}
	return *p.DairyTolerant
}

// SensitiveToAllium 是否對蔥蒜/FODMAP 敏感
func (p *UserPrefs) SensitiveToAllium() bool {
	if p == nil {
		return false
	}
	return p.FodmapSensitive || p.AlliumSensitive
}
