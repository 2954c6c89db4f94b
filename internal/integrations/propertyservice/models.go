package propertyservice

// Property модель объекта недвижимости из PropertyService
type Property struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	AgentID   *int64 `json:"agent_id"` // назначенный агент, может отсутствовать
	CreatedBy int64  `json:"created_by"`
	Archived  bool   `json:"archived"`
}

// RecipientID возвращает сторону, подтверждающую визиты по объекту:
// назначенный агент, при его отсутствии - создатель объекта
func (p *Property) RecipientID() int64 {
	if p.AgentID != nil {
		return *p.AgentID
	}
	return p.CreatedBy
}

// ErrorResponse модель ошибки от PropertyService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
