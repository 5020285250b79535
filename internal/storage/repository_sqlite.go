package storage

import (
	"strings"
	"time"

	"github.com/friendsofgo/errors"
	"gorm.io/gorm"

	"github.com/monsterhaven/battle-engine/internal/battle"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

// translate maps driver-level failures into the engine's error taxonomy so
// callers can match with errors.Is instead of inspecting SQLite strings.
func translate(err error, entity string, id uint) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &battle.NotFoundError{Entity: entity, ID: id}
	}
	msg := err.Error()
	if strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked") {
		return &battle.ConflictError{BattleID: id, Detail: "conflicting concurrent write: " + msg}
	}
	return errors.Wrapf(err, "%s %d", entity, id)
}

func (r *sqliteRepository) CreateBattle(b *battle.Battle) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(b).Error
	})
	return translate(err, "battle session", b.ID)
}

func (r *sqliteRepository) GetBattleByID(id uint) (*battle.Battle, error) {
	var b battle.Battle
	err := r.db.Preload("Participants.Slots").First(&b, id).Error
	if err != nil {
		return nil, translate(err, "battle session", id)
	}
	return &b, nil
}

func (r *sqliteRepository) GetBattleByPublicID(publicID string) (*battle.Battle, error) {
	var b battle.Battle
	err := r.db.Preload("Participants.Slots").Where("public_id = ?", publicID).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &battle.NotFoundError{Entity: "battle session " + publicID, ID: 0}
		}
		return nil, errors.Wrapf(err, "battle session %s", publicID)
	}
	return &b, nil
}

func (r *sqliteRepository) UpdateBattle(b *battle.Battle) error {
	err := r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(b).Error
	return translate(err, "battle session", b.ID)
}

func (r *sqliteRepository) DeleteBattleCascade(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("battle_id = ?", id).Delete(&battle.TurnLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("battle_id = ?", id).Delete(&battle.RosterSlot{}).Error; err != nil {
			return err
		}
		if err := tx.Where("battle_id = ?", id).Delete(&battle.Participant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&battle.Battle{}, id).Error
	})
	return translate(err, "battle session", id)
}

func (r *sqliteRepository) FindExpiredTurnBattles(now time.Time) ([]battle.Battle, error) {
	var battles []battle.Battle
	err := r.db.Preload("Participants.Slots").
		Where("status = ? AND turn_time_limit > 0 AND turn_started_at IS NOT NULL", battle.StatusActive).
		Find(&battles).Error
	if err != nil {
		return nil, errors.Wrap(err, "expired turn scan")
	}
	// The deadline is turn_started_at + per-battle limit, so the comparison
	// happens here rather than in SQL.
	expired := battles[:0]
	for i := range battles {
		if battles[i].TurnExpired(now) {
			expired = append(expired, battles[i])
		}
	}
	return expired, nil
}

func (r *sqliteRepository) AddParticipant(p *battle.Participant) error {
	err := r.db.Create(p).Error
	return translate(err, "battle participant", p.ID)
}

func (r *sqliteRepository) GetParticipants(battleID uint) ([]battle.Participant, error) {
	var out []battle.Participant
	err := r.db.Preload("Slots").
		Where("battle_id = ?", battleID).
		Order("turn_order").
		Find(&out).Error
	if err != nil {
		return nil, errors.Wrapf(err, "participants of battle %d", battleID)
	}
	return out, nil
}

func (r *sqliteRepository) UpdateParticipant(p *battle.Participant) error {
	err := r.db.Save(p).Error
	return translate(err, "battle participant", p.ID)
}

func (r *sqliteRepository) GetRosterSlot(id uint) (*battle.RosterSlot, error) {
	var s battle.RosterSlot
	if err := r.db.First(&s, id).Error; err != nil {
		return nil, translate(err, "roster slot", id)
	}
	return &s, nil
}

func (r *sqliteRepository) MutateRosterSlot(id uint, fn func(*battle.RosterSlot) error) (*battle.RosterSlot, error) {
	var s battle.RosterSlot
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&s, id).Error; err != nil {
			return err
		}
		if err := fn(&s); err != nil {
			return err
		}
		return tx.Save(&s).Error
	})
	if err != nil {
		// Domain errors from fn pass through untouched.
		if errors.Is(err, battle.ErrValidation) || errors.Is(err, battle.ErrInvalidState) {
			return nil, err
		}
		return nil, translate(err, "roster slot", id)
	}
	return &s, nil
}

func (r *sqliteRepository) SaveResolvedTurn(b *battle.Battle, t *battle.TurnLog) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(b).Error
	})
	return translate(err, "battle session", b.ID)
}

func (r *sqliteRepository) AppendTurn(t *battle.TurnLog) error {
	err := r.db.Create(t).Error
	return translate(err, "turn log", t.ID)
}

func (r *sqliteRepository) GetTurnsByBattle(battleID uint, q TurnQuery) ([]battle.TurnLog, error) {
	tx := r.db.Where("battle_id = ?", battleID)
	if q.TurnNumber != nil {
		tx = tx.Where("turn_number = ?", *q.TurnNumber)
	}
	if q.ParticipantID != nil {
		tx = tx.Where("participant_id = ?", *q.ParticipantID)
	}
	if q.ActionType != "" {
		tx = tx.Where("action_type = ?", q.ActionType)
	}
	tx = tx.Order("turn_number, created_at")
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit).Offset(q.Offset)
	}
	var out []battle.TurnLog
	if err := tx.Find(&out).Error; err != nil {
		return nil, errors.Wrapf(err, "turns of battle %d", battleID)
	}
	return out, nil
}

func (r *sqliteRepository) GetLatestTurn(battleID uint) (*battle.TurnLog, error) {
	var t battle.TurnLog
	err := r.db.Where("battle_id = ?", battleID).
		Order("turn_number DESC, created_at DESC").
		First(&t).Error
	if err != nil {
		return nil, translate(err, "turn log of battle", battleID)
	}
	return &t, nil
}

func (r *sqliteRepository) GetTurnsByParticipant(participantID uint) ([]battle.TurnLog, error) {
	var out []battle.TurnLog
	err := r.db.Where("participant_id = ?", participantID).
		Order("turn_number, created_at").
		Find(&out).Error
	if err != nil {
		return nil, errors.Wrapf(err, "turns of participant %d", participantID)
	}
	return out, nil
}

func (r *sqliteRepository) GetBattleStatistics(battleID uint) (*BattleStatistics, error) {
	var stats BattleStatistics
	err := r.db.Raw(`
		SELECT
			COUNT(*) AS total_turns,
			COUNT(CASE WHEN action_type = 'attack' THEN 1 END) AS attack_turns,
			COUNT(CASE WHEN action_type = 'item' THEN 1 END) AS item_turns,
			COUNT(CASE WHEN action_type = 'switch' THEN 1 END) AS switch_turns,
			COUNT(CASE WHEN action_type = 'flee' THEN 1 END) AS flee_turns,
			COUNT(CASE WHEN action_type = 'skip' THEN 1 END) AS skip_turns,
			COALESCE(SUM(damage_dealt), 0) AS total_damage,
			COALESCE(SUM(word_count), 0) AS total_words,
			COALESCE(AVG(word_count), 0) AS avg_words_per_turn
		FROM battle_turns
		WHERE battle_id = ? AND deleted_at IS NULL`, battleID).
		Scan(&stats).Error
	if err != nil {
		return nil, errors.Wrapf(err, "statistics of battle %d", battleID)
	}
	return &stats, nil
}
