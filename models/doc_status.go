package models

// DocStatus — статус документа и статус шага согласования.
// Строковые значения сохранены из исходной системы (индонезийский
// документооборот), на них завязан фронт и уже накопленные данные.
type DocStatus string

const (
	DocStatusWaiting  DocStatus = "Menunggu Persetujuan" // ожидает согласования
	DocStatusApproved DocStatus = "Disetujui"            // согласован
	DocStatusRejected DocStatus = "Ditolak"              // отклонён
	DocStatusRevise   DocStatus = "Revisi"               // отправлен на доработку
)

// IsTerminal — из Approved и Rejected переходов нет.
func (s DocStatus) IsTerminal() bool {
	return s == DocStatusApproved || s == DocStatusRejected
}

// AllowAct — может ли шаг в этом статусе принять решение.
func (s DocStatus) AllowAct() bool {
	return s == DocStatusWaiting
}

// AllowResubmit — повторная подача доступна только из статуса Revise.
func (s DocStatus) AllowResubmit() bool {
	return s == DocStatusRevise
}
