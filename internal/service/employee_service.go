package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"staffadmin/internal/model"
	"staffadmin/internal/permission"
	"staffadmin/internal/repository"
	"staffadmin/pkg/apperror"

	"github.com/xuri/excelize/v2"
)

const DateLayout = "2006-01-02"

// EmployeeRequest is used for create and update. A nil field is "not sent";
// every sent field must be writable for the caller.
type EmployeeRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1"`
	JoinDate *string `json:"joinDate" binding:"omitempty,datetime=2006-01-02"`
	Position *string `json:"position" binding:"omitempty,position"`
	Gender   *string `json:"gender" binding:"omitempty,gender"`
	DOB      *string `json:"dob" binding:"omitempty,datetime=2006-01-02"`
	Phone    *string `json:"phone"`
	NRC      *string `json:"nrc"`
	Address  *string `json:"address"`
}

type BulkDeleteRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

// EmployeeView is an employee projected onto the fields the caller may read.
type EmployeeView map[string]any

type EmployeeListQuery struct {
	repository.ListParams
	Position string
}

// ExportFile is a generated spreadsheet.
type ExportFile struct {
	Name    string
	Content []byte
}

const (
	ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportSheet       = "Employees"
)

type EmployeeService interface {
	List(ctx context.Context, actor *Actor, query EmployeeListQuery) ([]EmployeeView, int64, error)
	Get(ctx context.Context, actor *Actor, id uint) (EmployeeView, error)
	Create(ctx context.Context, actor *Actor, req EmployeeRequest) (EmployeeView, error)
	Update(ctx context.Context, actor *Actor, id uint, req EmployeeRequest) (EmployeeView, error)
	Delete(ctx context.Context, actor *Actor, id uint) error
	BulkDelete(ctx context.Context, actor *Actor, req BulkDeleteRequest) (int64, error)
	Export(ctx context.Context, actor *Actor) (*ExportFile, error)
}

type employeeService struct {
	repo     repository.EmployeeRepository
	resolver *permission.Resolver
	now      func() time.Time
}

func NewEmployeeService(repo repository.EmployeeRepository, resolver *permission.Resolver) EmployeeService {
	if resolver == nil {
		resolver = permission.Default
	}
	return &employeeService{repo: repo, resolver: resolver, now: time.Now}
}

var (
	errEmployeeNotFound = apperror.NewNotFound("Employee not found")
	errNoSession        = apperror.NewUnauthorized("Unauthorized")
)

// employeeColumn ties a request/response key to its permission entry.
type employeeColumn struct {
	key   string
	perm  string
	label string
}

// employeeColumns follows the canonical field order, then detail fields.
var employeeColumns = []employeeColumn{
	{"name", permission.FieldName, "Name"},
	{"joinDate", permission.FieldJoinDate, "Join Date"},
	{"serviceYears", permission.FieldServiceYears, "Service Years"},
	{"gender", permission.FieldGender, "Gender"},
	{"dob", permission.FieldDOB, "Date of Birth"},
	{"age", permission.FieldDOB, "Age"},
	{"phone", permission.FieldPhoneNo, "Phone No"},
	{"position", permission.FieldPosition, "Position"},
	{"nrc", permission.DetailNRC, "NRC"},
	{"address", permission.DetailAddress, "Address"},
}

// --- authorization helpers ---

func (s *employeeService) policy(actor *Actor) permission.Policy {
	return s.resolver.EmployeePolicy(actor.Permissions, actor.Role)
}

// reach resolves an action and returns the creator filter it implies: nil
// for scope "all", the caller's id for own/team/department. An unknown scope
// grants nothing.
func (s *employeeService) reach(actor *Actor, group permission.Group, action string) (*uint, error) {
	if actor == nil {
		return nil, errNoSession
	}
	access := s.resolver.Action(actor.Permissions, actor.Role, permission.ModuleEmployeeManagement, group, action)
	if !access.Enabled {
		return nil, apperror.NewForbidden("You do not have permission to %s employees", action)
	}
	if access.CanAccessAll {
		return nil, nil
	}
	if !access.CanAccessOwn {
		return nil, apperror.NewForbidden("You do not have permission to %s employees", action)
	}
	id := actor.UserID
	return &id, nil
}

func inReach(e *model.Employee, createdBy *uint) bool {
	if createdBy == nil {
		return true
	}
	return e.CreatedByID != nil && *e.CreatedByID == *createdBy
}

func (s *employeeService) load(ctx context.Context, id uint, createdBy *uint) (*model.Employee, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, errEmployeeNotFound
		}
		return nil, internalError("get employee", err)
	}
	// Records outside the caller's scope are reported as missing.
	if !inReach(e, createdBy) {
		return nil, errEmployeeNotFound
	}
	return e, nil
}

// --- operations ---

func (s *employeeService) List(ctx context.Context, actor *Actor, query EmployeeListQuery) ([]EmployeeView, int64, error) {
	createdBy, err := s.reach(actor, permission.GroupActions, permission.ActionView)
	if err != nil {
		return nil, 0, err
	}

	employees, total, err := s.repo.List(ctx, repository.EmployeeFilter{
		ListParams:  query.ListParams,
		CreatedByID: createdBy,
		Position:    query.Position,
	})
	if err != nil {
		return nil, 0, internalError("list employees", err)
	}

	policy := s.policy(actor)
	now := s.now()
	views := make([]EmployeeView, 0, len(employees))
	for i := range employees {
		views = append(views, project(&employees[i], policy, now))
	}
	return views, total, nil
}

func (s *employeeService) Get(ctx context.Context, actor *Actor, id uint) (EmployeeView, error) {
	createdBy, err := s.reach(actor, permission.GroupActions, permission.ActionView)
	if err != nil {
		return nil, err
	}
	e, err := s.load(ctx, id, createdBy)
	if err != nil {
		return nil, err
	}
	return project(e, s.policy(actor), s.now()), nil
}

func (s *employeeService) Create(ctx context.Context, actor *Actor, req EmployeeRequest) (EmployeeView, error) {
	if _, err := s.reach(actor, permission.GroupActions, permission.ActionCreate); err != nil {
		return nil, err
	}
	policy := s.policy(actor)
	if err := checkWritable(req, policy); err != nil {
		return nil, err
	}
	if req.Name == nil || req.JoinDate == nil || req.Position == nil || req.Gender == nil || req.DOB == nil {
		return nil, apperror.NewValidation("name, joinDate, position, gender and dob are required")
	}

	e := &model.Employee{CreatedByID: actor.userID()}
	if err := applyRequest(e, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, internalError("create employee", err)
	}
	return project(e, policy, s.now()), nil
}

func (s *employeeService) Update(ctx context.Context, actor *Actor, id uint, req EmployeeRequest) (EmployeeView, error) {
	createdBy, err := s.reach(actor, permission.GroupActions, permission.ActionEdit)
	if err != nil {
		return nil, err
	}
	policy := s.policy(actor)
	if err := checkWritable(req, policy); err != nil {
		return nil, err
	}

	e, err := s.load(ctx, id, createdBy)
	if err != nil {
		return nil, err
	}
	if err := applyRequest(e, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, e); err != nil {
		if isNotFound(err) {
			return nil, errEmployeeNotFound
		}
		return nil, internalError("update employee", err)
	}
	return project(e, policy, s.now()), nil
}

func (s *employeeService) Delete(ctx context.Context, actor *Actor, id uint) error {
	createdBy, err := s.reach(actor, permission.GroupActions, permission.ActionDelete)
	if err != nil {
		return err
	}
	if _, err := s.load(ctx, id, createdBy); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return errEmployeeNotFound
		}
		return internalError("delete employee", err)
	}
	return nil
}

// BulkDelete removes the ids within the caller's reach and reports how many
// were deleted. Missing or out-of-scope ids are skipped.
func (s *employeeService) BulkDelete(ctx context.Context, actor *Actor, req BulkDeleteRequest) (int64, error) {
	createdBy, err := s.reach(actor, permission.GroupBulk, permission.ActionDelete)
	if err != nil {
		return 0, err
	}
	if len(req.IDs) == 0 {
		return 0, apperror.NewValidation("ids are required")
	}

	ids := make([]uint, 0, len(req.IDs))
	for _, id := range req.IDs {
		e, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return 0, internalError("get employee", err)
		}
		if inReach(e, createdBy) {
			ids = append(ids, id)
		}
	}

	n, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, internalError("bulk delete employees", err)
	}
	return n, nil
}

// Export writes every employee in reach to an xlsx sheet, one column per
// readable field.
func (s *employeeService) Export(ctx context.Context, actor *Actor) (*ExportFile, error) {
	createdBy, err := s.reach(actor, permission.GroupBulk, permission.ActionExport)
	if err != nil {
		return nil, err
	}
	employees, _, err := s.repo.List(ctx, repository.EmployeeFilter{CreatedByID: createdBy})
	if err != nil {
		return nil, internalError("list employees for export", err)
	}

	policy := s.policy(actor)
	columns := make([]employeeColumn, 0, len(employeeColumns))
	for _, col := range employeeColumns {
		if policy.CanRead(col.perm) {
			columns = append(columns, col)
		}
	}
	if len(columns) == 0 {
		return nil, apperror.NewForbidden("No readable employee fields to export")
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, internalError("prepare export", err)
	}

	header := make([]any, 0, len(columns)+1)
	header = append(header, "ID")
	for _, col := range columns {
		header = append(header, col.label)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, internalError("write export header", err)
	}

	now := s.now()
	for i := range employees {
		view := project(&employees[i], policy, now)
		row := make([]any, 0, len(columns)+1)
		row = append(row, employees[i].ID)
		for _, col := range columns {
			row = append(row, view[col.key])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, internalError("write export row", err)
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, internalError("write export row", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, internalError("encode export", err)
	}
	return &ExportFile{
		Name:    fmt.Sprintf("employees-%s.xlsx", now.Format("20060102")),
		Content: buf.Bytes(),
	}, nil
}

// --- projection and writes ---

// project keeps only readable fields. id and createdById are always present.
func project(e *model.Employee, policy permission.Policy, now time.Time) EmployeeView {
	view := EmployeeView{"id": e.ID}
	if e.CreatedByID != nil {
		view["createdById"] = *e.CreatedByID
	}
	for _, col := range employeeColumns {
		if !policy.CanRead(col.perm) {
			continue
		}
		switch col.key {
		case "name":
			view[col.key] = e.Name
		case "joinDate":
			view[col.key] = e.JoinDate.Format(DateLayout)
		case "serviceYears":
			view[col.key] = e.ServiceYears(now)
		case "gender":
			view[col.key] = e.Gender
		case "dob":
			view[col.key] = e.DOB.Format(DateLayout)
		case "age":
			view[col.key] = e.Age(now)
		case "phone":
			view[col.key] = e.Phone
		case "position":
			view[col.key] = e.Position
		case "nrc":
			if e.NRC != nil {
				view[col.key] = *e.NRC
			} else {
				view[col.key] = nil
			}
		case "address":
			view[col.key] = e.Address
		}
	}
	return view
}

func checkWritable(req EmployeeRequest, policy permission.Policy) error {
	sent := []struct {
		set  bool
		key  string
		perm string
	}{
		{req.Name != nil, "name", permission.FieldName},
		{req.JoinDate != nil, "joinDate", permission.FieldJoinDate},
		{req.Gender != nil, "gender", permission.FieldGender},
		{req.DOB != nil, "dob", permission.FieldDOB},
		{req.Phone != nil, "phone", permission.FieldPhoneNo},
		{req.Position != nil, "position", permission.FieldPosition},
		{req.NRC != nil, "nrc", permission.DetailNRC},
		{req.Address != nil, "address", permission.DetailAddress},
	}
	for _, f := range sent {
		if f.set && !policy.CanWrite(f.perm) {
			return apperror.NewForbidden("You do not have write access to field %s", f.key)
		}
	}
	return nil
}

func applyRequest(e *model.Employee, req EmployeeRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return apperror.NewValidation("name cannot be empty")
		}
		e.Name = name
	}
	if req.JoinDate != nil {
		d, err := time.Parse(DateLayout, *req.JoinDate)
		if err != nil {
			return apperror.NewValidation("joinDate must be a date in YYYY-MM-DD format")
		}
		e.JoinDate = d
	}
	if req.DOB != nil {
		d, err := time.Parse(DateLayout, *req.DOB)
		if err != nil {
			return apperror.NewValidation("dob must be a date in YYYY-MM-DD format")
		}
		e.DOB = d
	}
	if req.Position != nil {
		if !model.IsValidPosition(*req.Position) {
			return apperror.NewValidation("position must be one of %s", strings.Join(model.Positions, ", "))
		}
		e.Position = *req.Position
	}
	if req.Gender != nil {
		if !model.IsValidGender(*req.Gender) {
			return apperror.NewValidation("gender must be Male or Female")
		}
		e.Gender = *req.Gender
	}
	if req.Phone != nil {
		e.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.NRC != nil {
		nrc := strings.TrimSpace(*req.NRC)
		if nrc == "" {
			e.NRC = nil
		} else {
			e.NRC = &nrc
		}
	}
	if req.Address != nil {
		e.Address = strings.TrimSpace(*req.Address)
	}
	return nil
}
