package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carrotnibbles/stratsync/internal/model"
)

// Postgres is the pgx/v5-backed Store implementation, grounded on the
// pgxpool.Pool-behind-an-interface pattern other example services use
// to keep SQL out of handler code.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres opens a pool against databaseURL and wraps it as a Store.
func NewPostgres(ctx context.Context, databaseURL string, maxConns int32) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("persistence: parse database url: %w", err)
	}
	cfg.MaxConns = maxConns
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("persistence: open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("persistence: ping: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close releases the underlying pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

func (p *Postgres) LoadStrategy(ctx context.Context, strategyID uuid.UUID) (model.Strategy, error) {
	var s model.Strategy
	s.ID = strategyID

	row := p.pool.QueryRow(ctx, `
		SELECT raid_id, author_id, public, password_hash
		FROM strategies WHERE id = $1`, strategyID)
	if err := row.Scan(&s.RaidID, &s.AuthorID, &s.Public, &s.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Strategy{}, fmt.Errorf("persistence: strategy %s: %w", strategyID, ErrNotFound)
		}
		return model.Strategy{}, fmt.Errorf("persistence: load strategy: %w", err)
	}

	players, err := p.loadPlayers(ctx, strategyID)
	if err != nil {
		return model.Strategy{}, err
	}
	s.Players = players

	opts, err := p.loadDamageOptions(ctx, strategyID)
	if err != nil {
		return model.Strategy{}, err
	}
	s.DamageOptions = opts

	entries, err := p.loadEntries(ctx, strategyID)
	if err != nil {
		return model.Strategy{}, err
	}
	s.Entries = entries

	notes, err := p.loadNotes(ctx, strategyID)
	if err != nil {
		return model.Strategy{}, err
	}
	s.Notes = notes

	return s, nil
}

func (p *Postgres) loadPlayers(ctx context.Context, strategyID uuid.UUID) ([]model.Player, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, job, "order" FROM players
		WHERE strategy_id = $1 ORDER BY "order"`, strategyID)
	if err != nil {
		return nil, fmt.Errorf("persistence: load players: %w", err)
	}
	defer rows.Close()

	var out []model.Player
	for rows.Next() {
		var pl model.Player
		var job *string
		if err := rows.Scan(&pl.ID, &job, &pl.Order); err != nil {
			return nil, fmt.Errorf("persistence: scan player: %w", err)
		}
		if job != nil {
			j := model.Job(*job)
			pl.Job = &j
		}
		out = append(out, pl)
	}
	return out, rows.Err()
}

func (p *Postgres) loadDamageOptions(ctx context.Context, strategyID uuid.UUID) ([]model.DamageOption, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT damage, num_shared, primary_target FROM strategy_damage_options
		WHERE strategy = $1`, strategyID)
	if err != nil {
		return nil, fmt.Errorf("persistence: load damage options: %w", err)
	}
	defer rows.Close()

	var out []model.DamageOption
	for rows.Next() {
		var d model.DamageOption
		if err := rows.Scan(&d.Damage, &d.NumShared, &d.PrimaryTarget); err != nil {
			return nil, fmt.Errorf("persistence: scan damage option: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (p *Postgres) loadEntries(ctx context.Context, strategyID uuid.UUID) ([]model.Entry, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, player_id, action_id, use_at FROM entries
		WHERE strategy_id = $1`, strategyID)
	if err != nil {
		return nil, fmt.Errorf("persistence: load entries: %w", err)
	}
	defer rows.Close()

	var out []model.Entry
	for rows.Next() {
		var e model.Entry
		if err := rows.Scan(&e.ID, &e.PlayerID, &e.ActionID, &e.UseAt); err != nil {
			return nil, fmt.Errorf("persistence: scan entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (p *Postgres) loadNotes(ctx context.Context, strategyID uuid.UUID) ([]model.Note, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, block, offset_, at, content FROM notes
		WHERE strategy_id = $1`, strategyID)
	if err != nil {
		return nil, fmt.Errorf("persistence: load notes: %w", err)
	}
	defer rows.Close()

	var out []model.Note
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.Block, &n.Offset, &n.At, &n.Content); err != nil {
			return nil, fmt.Errorf("persistence: scan note: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (p *Postgres) LoadActionCatalog(ctx context.Context) (map[model.Job][]model.ActionInfo, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, job, cooldown, charges FROM actions`)
	if err != nil {
		return nil, fmt.Errorf("persistence: load action catalog: %w", err)
	}
	defer rows.Close()

	out := make(map[model.Job][]model.ActionInfo)
	for rows.Next() {
		var a model.ActionInfo
		var job string
		if err := rows.Scan(&a.ID, &job, &a.Cooldown, &a.Charges); err != nil {
			return nil, fmt.Errorf("persistence: scan action: %w", err)
		}
		out[model.Job(job)] = append(out[model.Job(job)], a)
	}
	return out, rows.Err()
}

func (p *Postgres) LoadRaidInfo(ctx context.Context, raidID uuid.UUID) (model.RaidInfo, error) {
	var info model.RaidInfo
	row := p.pool.QueryRow(ctx, `
		SELECT duration, headcount FROM raids WHERE id = $1`, raidID)
	if err := row.Scan(&info.Duration, &info.Headcount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RaidInfo{}, fmt.Errorf("persistence: raid %s: %w", raidID, ErrNotFound)
		}
		return model.RaidInfo{}, fmt.Errorf("persistence: load raid: %w", err)
	}

	rows, err := p.pool.Query(ctx, `
		SELECT id, max_shared, num_targets FROM damages WHERE raid_id = $1`, raidID)
	if err != nil {
		return model.RaidInfo{}, fmt.Errorf("persistence: load damages: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d model.Damage
		if err := rows.Scan(&d.ID, &d.MaxShared, &d.NumTargets); err != nil {
			return model.RaidInfo{}, fmt.Errorf("persistence: scan damage: %w", err)
		}
		info.Damages = append(info.Damages, d)
	}
	if err := rows.Err(); err != nil {
		return model.RaidInfo{}, err
	}
	return info, nil
}

func (p *Postgres) SetPasswordHash(ctx context.Context, strategyID uuid.UUID, hash string) error {
	_, err := p.pool.Exec(ctx, `
		UPDATE strategies SET password_hash = $2 WHERE id = $1`, strategyID, hash)
	if err != nil {
		return fmt.Errorf("persistence: set password hash: %w", err)
	}
	return nil
}

func (p *Postgres) ElevationInfo(ctx context.Context, strategyID uuid.UUID) (*string, bool, error) {
	var hash *string
	var editable bool
	row := p.pool.QueryRow(ctx, `
		SELECT password_hash, is_editable FROM strategies WHERE id = $1`, strategyID)
	if err := row.Scan(&hash, &editable); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, fmt.Errorf("persistence: strategy %s: %w", strategyID, ErrNotFound)
		}
		return nil, false, fmt.Errorf("persistence: load elevation info: %w", err)
	}
	return hash, editable, nil
}

// withTx runs fn inside a transaction and, on success, bumps the
// strategy's mtime column in the same transaction via the
// update_modified_at stored procedure, so every mutating write and its
// timestamp bump commit or roll back together.
func (p *Postgres) withTx(ctx context.Context, strategyID uuid.UUID, fn func(tx pgx.Tx) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("persistence: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `SELECT update_modified_at($1)`, strategyID); err != nil {
		return fmt.Errorf("persistence: touch modified_at: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("persistence: commit tx: %w", err)
	}
	return nil
}

func (p *Postgres) UpsertDamageOption(ctx context.Context, strategyID uuid.UUID, opt model.DamageOption) error {
	err := p.withTx(ctx, strategyID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO strategy_damage_options (strategy, damage, num_shared, primary_target)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (strategy, damage)
			DO UPDATE SET num_shared = EXCLUDED.num_shared, primary_target = EXCLUDED.primary_target`,
			strategyID, opt.Damage, opt.NumShared, opt.PrimaryTarget)
		return err
	})
	if err != nil {
		return fmt.Errorf("persistence: upsert damage option: %w", err)
	}
	return nil
}

func (p *Postgres) UpdatePlayerJob(ctx context.Context, strategyID, playerID uuid.UUID, job *model.Job) error {
	err := p.withTx(ctx, strategyID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			UPDATE players SET job = $3 WHERE strategy_id = $1 AND id = $2`,
			strategyID, playerID, job)
		return err
	})
	if err != nil {
		return fmt.Errorf("persistence: update player job: %w", err)
	}
	return nil
}

func (p *Postgres) UpsertEntries(ctx context.Context, strategyID uuid.UUID, entries []model.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	err := p.withTx(ctx, strategyID, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, e := range entries {
			batch.Queue(`
				INSERT INTO entries (id, strategy_id, player_id, action_id, use_at)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (id) DO UPDATE SET
					player_id = EXCLUDED.player_id,
					action_id = EXCLUDED.action_id,
					use_at = EXCLUDED.use_at`,
				e.ID, strategyID, e.PlayerID, e.ActionID, e.UseAt)
		}
		br := tx.SendBatch(ctx, batch)
		for range entries {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return err
			}
		}
		return br.Close()
	})
	if err != nil {
		return fmt.Errorf("persistence: upsert entries: %w", err)
	}
	return nil
}

func (p *Postgres) DeleteEntries(ctx context.Context, strategyID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	err := p.withTx(ctx, strategyID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			DELETE FROM entries WHERE strategy_id = $1 AND id = ANY($2)`, strategyID, ids)
		return err
	})
	if err != nil {
		return fmt.Errorf("persistence: delete entries: %w", err)
	}
	return nil
}

func (p *Postgres) UpsertNote(ctx context.Context, strategyID uuid.UUID, note model.Note) error {
	err := p.withTx(ctx, strategyID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO notes (id, strategy_id, block, offset_, at, content)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				block = EXCLUDED.block,
				offset_ = EXCLUDED.offset_,
				at = EXCLUDED.at,
				content = EXCLUDED.content`,
			note.ID, strategyID, note.Block, note.Offset, note.At, note.Content)
		return err
	})
	if err != nil {
		return fmt.Errorf("persistence: upsert note: %w", err)
	}
	return nil
}

func (p *Postgres) DeleteNote(ctx context.Context, strategyID, noteID uuid.UUID) error {
	err := p.withTx(ctx, strategyID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			DELETE FROM notes WHERE strategy_id = $1 AND id = $2`, strategyID, noteID)
		return err
	})
	if err != nil {
		return fmt.Errorf("persistence: delete note: %w", err)
	}
	return nil
}

func (p *Postgres) TouchModifiedAt(ctx context.Context, strategyID uuid.UUID) error {
	_, err := p.pool.Exec(ctx, `SELECT update_modified_at($1)`, strategyID)
	if err != nil {
		return fmt.Errorf("persistence: touch modified_at: %w", err)
	}
	return nil
}

// ErrNotFound is returned (wrapped) when a lookup by id matches no row.
var ErrNotFound = errors.New("persistence: not found")
