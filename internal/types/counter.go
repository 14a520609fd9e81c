package types

// Counter is a named shared sequence. It is only ever touched through an
// atomic upsert-with-increment, never a separate read then write.
type Counter struct {
	Name  string `gorm:"primaryKey;column:name"`
	Value int64  `gorm:"not null;default:0;column:value"`
}

func (Counter) TableName() string { return "counter" }
