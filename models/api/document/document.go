package docapimodels

import (
	"github.com/pkg/errors"

	"docflow-backend/models"
)

type DocumentCreateData struct {
	Title        string  `json:"title"`
	Content      string  `json:"content"`
	ApproverIDs  []int64 `json:"approver_ids"`
	RecipientIDs []int64 `json:"recipient_ids"`
}

func (r DocumentCreateData) Validate() error {
	if r.Title == "" {
		return errors.New("не указан заголовок документа")
	}
	seen := map[int64]bool{}
	for _, id := range r.ApproverIDs {
		if seen[id] {
			return errors.New("согласант указан в цепочке дважды")
		}
		seen[id] = true
	}
	return nil
}

type AssignData struct {
	ApproverIDs  []int64 `json:"approver_ids"`
	RecipientIDs []int64 `json:"recipient_ids"`
}

func (r AssignData) Validate() error {
	if len(r.ApproverIDs) == 0 && len(r.RecipientIDs) == 0 {
		return errors.New("не указаны участники")
	}
	seen := map[int64]bool{}
	for _, id := range r.ApproverIDs {
		if seen[id] {
			return errors.New("согласант указан в цепочке дважды")
		}
		seen[id] = true
	}
	return nil
}

type RejectData struct {
	Reason string `json:"reason"`
}

func (r RejectData) Validate() error {
	if r.Reason == "" {
		return errors.New("не указана причина отклонения")
	}
	return nil
}

type ReviseData struct {
	Note string `json:"note"`
}

func (r ReviseData) Validate() error {
	if r.Note == "" {
		return errors.New("не указано замечание")
	}
	return nil
}

// ResubmitData — правки автора при повторной подаче. Пустые поля не
// изменяются.
type ResubmitData struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	NoSurat string `json:"no_surat"`
}

type ApproverView struct {
	UserID    int64            `json:"user_id"`
	Name      string           `json:"name"`
	SeqIndex  int              `json:"seq_index"`
	Status    models.DocStatus `json:"status"`
	Note      string           `json:"note,omitempty"`
	DecidedAt string           `json:"decided_at,omitempty"`
}

type RecipientView struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
}

type AttachmentView struct {
	ID          int64  `json:"id"`
	FileName    string `json:"filename"`
	IsSealed    bool   `json:"is_sealed"`
	DownloadURL string `json:"download_url"`
}

// NoSealedSentinel — маркер «финального файла ещё нет», значение
// унаследовано от исходной системы.
const NoSealedSentinel = "<Belum Full Approved/Reject>"

// DocumentView — проекция документа для конкретного читателя.
// Пересчитывается на каждом чтении, денормализованных кешей нет.
type DocumentView struct {
	ID         int64            `json:"id"`
	NoSurat    string           `json:"no_surat"`
	Title      string           `json:"title"`
	Content    string           `json:"content"`
	Status     models.DocStatus `json:"status"`
	Creator    string           `json:"creator"`
	IsCreator  bool             `json:"is_creator"`
	CreatedAt  string           `json:"created_at"`
	Approvers  []ApproverView   `json:"approvers"`
	Recipients []RecipientView  `json:"recipients"`
	Files      []AttachmentView `json:"files"`
	SealedFile string           `json:"stamped_pdf"`
	IsRead     bool             `json:"is_read"`
	Unread     bool             `json:"unread"`
}

// Dashboard — пять рабочих списков пользователя.
type Dashboard struct {
	ApprovedByMe      []DocumentView `json:"approved_by_me"`
	MyFinalized       []DocumentView `json:"my_finalized"`
	PendingButWaiting []DocumentView `json:"pending_but_waiting"`
	ReadyToApprove    []DocumentView `json:"ready_to_approve"`
	Inbox             []DocumentView `json:"inbox"`
}

type NoteView struct {
	UserID    int64            `json:"user_id"`
	Name      string           `json:"name"`
	Status    models.DocStatus `json:"status"`
	Note      string           `json:"note"`
	DecidedAt string           `json:"decided_at,omitempty"`
}

type UnreadItem struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Kind      string `json:"type"` // inbox | waiting
	CreatedAt string `json:"created_at"`
}

type UnreadSummary struct {
	Inbox   []UnreadItem `json:"inbox"`
	Waiting []UnreadItem `json:"waiting"`
}

type TrashFileView struct {
	ID         int64  `json:"id"`
	DocumentID int64  `json:"document_id"`
	FileName   string `json:"filename"`
	CreatedAt  string `json:"created_at"`
}
