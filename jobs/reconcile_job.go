package jobs

import (
	"log"

	"gorm.io/gorm"

	"messenger-be/database"
	"messenger-be/models"
)

// ReconcileSummaries recomputes each conversation's member and message counts
// from the authoritative rows and repairs any summary that drifted. The write
// path keeps the counters in step transactionally, so repairs here mean a bug
// or an out-of-band write; every repair is logged.
func ReconcileSummaries() {
	log.Println("Running job: ReconcileSummaries...")

	repaired, err := reconcileSummaries(database.DB)
	if err != nil {
		log.Printf("Error reconciling summaries: %v", err)
		return
	}
	if repaired > 0 {
		log.Printf("Repaired %d drifted conversation summaries", repaired)
	}
}

func reconcileSummaries(db *gorm.DB) (int, error) {
	var summaries []models.ConversationSummary
	if err := db.Find(&summaries).Error; err != nil {
		return 0, err
	}

	repaired := 0
	for _, summary := range summaries {
		var memberCount, messageCount int64
		if err := db.Model(&models.Membership{}).
			Where("conversation_id = ?", summary.ConversationID).
			Count(&memberCount).Error; err != nil {
			return repaired, err
		}
		if err := db.Model(&models.Message{}).
			Where("conversation_id = ?", summary.ConversationID).
			Count(&messageCount).Error; err != nil {
			return repaired, err
		}

		if summary.MemberCount == int(memberCount) && summary.MessageCount == int(messageCount) {
			continue
		}

		log.Printf("Summary drift for conversation %s: member_count %d -> %d, message_count %d -> %d",
			summary.ConversationID, summary.MemberCount, memberCount, summary.MessageCount, messageCount)

		ok, err := repairSummary(db, summary, memberCount, messageCount)
		if err != nil {
			return repaired, err
		}
		if ok {
			repaired++
		}
	}
	return repaired, nil
}

// repairSummary writes the derived counts, guarded on the counters still
// holding the values we read them at. A send or member-add committing between
// the counting reads and this write makes the guard miss, and the row is left
// for the next run instead of being clobbered with stale numbers.
func repairSummary(db *gorm.DB, stale models.ConversationSummary, memberCount, messageCount int64) (bool, error) {
	res := db.Model(&models.ConversationSummary{}).
		Where("conversation_id = ? AND member_count = ? AND message_count = ?",
			stale.ConversationID, stale.MemberCount, stale.MessageCount).
		Updates(map[string]interface{}{
			"member_count":  memberCount,
			"message_count": messageCount,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		log.Printf("Skipping repair for conversation %s: counters moved during reconciliation", stale.ConversationID)
		return false, nil
	}
	return true, nil
}
