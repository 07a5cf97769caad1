package mapping

import (
	"github.com/SscSPs/pocket_ledger/internal/core/domain"
	"github.com/SscSPs/pocket_ledger/internal/models"
)

// ToModelJournal converts a domain Journal header to a model Journal
func ToModelJournal(d domain.Journal) models.Journal {
	return models.Journal{
		JournalID:     d.JournalID,
		JournalDate:   d.JournalDate,
		Kind:          string(d.Kind),
		Title:         d.Title,
		Memo:          d.Memo,
		AttachmentRef: d.AttachmentRef,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournal converts a model Journal to a domain Journal without lines
func ToDomainJournal(m models.Journal) domain.Journal {
	return domain.Journal{
		JournalID:     m.JournalID,
		JournalDate:   m.JournalDate,
		Kind:          domain.JournalKind(m.Kind),
		Title:         m.Title,
		Memo:          m.Memo,
		AttachmentRef: m.AttachmentRef,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:           d.LineID,
		JournalID:        d.JournalID,
		LineNo:           d.LineNo,
		AccountID:        d.AccountID,
		Side:             string(d.Side),
		Amount:           d.Amount,
		Category:         nullableString(d.Category),
		Note:             nullableString(d.Note),
		OriginalAmount:   d.OriginalAmount,
		OriginalCurrency: d.OriginalCurrency,
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:           m.LineID,
		JournalID:        m.JournalID,
		LineNo:           m.LineNo,
		AccountID:        m.AccountID,
		Side:             domain.Side(m.Side),
		Amount:           m.Amount,
		Category:         valueOrEmpty(m.Category),
		Note:             valueOrEmpty(m.Note),
		OriginalAmount:   m.OriginalAmount,
		OriginalCurrency: m.OriginalCurrency,
	}
}

// ToDomainJournalLineSlice converts model lines to domain lines
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}
