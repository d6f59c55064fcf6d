package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"talentbridge/internal/common"
	"talentbridge/internal/domain/pipeline"
)

const applicationColumns = `id, stage, recruiter_id, candidate_id, company_id, job_id,
	recruiter_name, candidate_name, company_name, job_title,
	action_due_date, notes, created_at, updated_at`

const defaultPageLimit = 20
const maxPageLimit = 500

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) FindPaginated(ctx context.Context, filter pipeline.Filter) (*pipeline.Page, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	where, args := buildWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM applications` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to count applications", err)
	}

	query := `SELECT ` + applicationColumns + ` FROM applications` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	defer rows.Close()

	var items []pipeline.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan application", err)
		}
		items = append(items, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to read applications", err)
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return &pipeline.Page{Data: items, Total: total, Page: page, Limit: limit, TotalPages: totalPages}, nil
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id common.UUID) (*pipeline.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	return app, nil
}

// TransitionStage performs a compare-and-swap on the stage column: the update
// applies only while the application is still at fromStage. When zero rows
// match, the stage moved underneath the caller and the write is rejected.
func (r *ApplicationRepository) TransitionStage(ctx context.Context, id common.UUID, fromStage, toStage pipeline.Stage, actorID common.UUID, notes string) (*pipeline.Application, error) {
	updatedAt := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE applications SET stage = $1, notes = $2, last_actor_id = $3, updated_at = $4
		WHERE id = $5 AND stage = $6`,
		toStage, notes, actorID, updatedAt, id, fromStage)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to transition application", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to transition application", err)
	}
	if rows == 0 {
		current, findErr := r.FindByID(ctx, id)
		if findErr != nil {
			return nil, findErr
		}
		return nil, common.NewError(common.CodeConflict, "application moved from "+string(fromStage)+" to "+string(current.Stage)+" before this action was applied", nil)
	}
	return r.FindByID(ctx, id)
}

// Create is used by ingest tooling; the workflow engine itself never creates
// applications.
func (r *ApplicationRepository) Create(ctx context.Context, app pipeline.Application) (*pipeline.Application, error) {
	if app.ID.IsZero() {
		app.ID = common.NewUUID()
	}
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO applications (`+applicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		app.ID, app.Stage, app.RecruiterID, app.CandidateID, app.CompanyID, app.JobID,
		app.Recruiter.Name, app.Candidate.Name, app.Company.Name, app.Job.Title,
		nullableTime(app.ActionDueDate), app.Notes, app.CreatedAt, app.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, common.NewError(common.CodeConflict, "an application for this candidate and job already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create application", err)
	}
	return &app, nil
}

func buildWhere(filter pipeline.Filter) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	if filter.RecruiterID != nil {
		args = append(args, *filter.RecruiterID)
		conditions = append(conditions, fmt.Sprintf("recruiter_id = $%d", len(args)))
	}
	if filter.CandidateID != nil {
		args = append(args, *filter.CandidateID)
		conditions = append(conditions, fmt.Sprintf("candidate_id = $%d", len(args)))
	}
	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		conditions = append(conditions, fmt.Sprintf("company_id = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+escapeLikePattern(search)+"%")
		conditions = append(conditions, fmt.Sprintf("(candidate_name ILIKE $%d OR job_title ILIKE $%d)", len(args), len(args)))
	}
	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// escapeLikePattern neutralizes LIKE metacharacters so a user searching for
// a literal "%" or "_" does not match everything.
func escapeLikePattern(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row rowScanner) (*pipeline.Application, error) {
	var app pipeline.Application
	var dueDate sql.NullTime
	if err := row.Scan(
		&app.ID, &app.Stage, &app.RecruiterID, &app.CandidateID, &app.CompanyID, &app.JobID,
		&app.Recruiter.Name, &app.Candidate.Name, &app.Company.Name, &app.Job.Title,
		&dueDate, &app.Notes, &app.CreatedAt, &app.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if dueDate.Valid {
		t := dueDate.Time
		app.ActionDueDate = &t
	}
	app.Recruiter.ID = app.RecruiterID
	app.Candidate.ID = app.CandidateID
	app.Company.ID = app.CompanyID
	app.Job.ID = app.JobID
	return &app, nil
}

func nullableTime(value *time.Time) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
