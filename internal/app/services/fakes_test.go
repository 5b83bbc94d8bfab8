package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/courseregistry/internal/app/models"
	"github.com/yigit/courseregistry/internal/app/repositories"
	"github.com/yigit/courseregistry/internal/pkg/apperrors"
	"github.com/yigit/courseregistry/internal/pkg/metrics"
)

var testLogger = zerolog.New(io.Discard)

// memStore is an in-memory stand-in for the courses and students tables
type memStore struct {
	mu           sync.Mutex
	nextCourseID int64
	courses      map[int64]*models.Course
	students     map[int64]*models.Student
	admins       map[string]*models.Admin

	failAddRegistered error
}

func newMemStore() *memStore {
	return &memStore{
		courses:  make(map[int64]*models.Course),
		students: make(map[int64]*models.Student),
		admins:   make(map[string]*models.Admin),
	}
}

func cloneCourse(c *models.Course) *models.Course {
	out := *c
	out.Prerequisites = append([]int64{}, c.Prerequisites...)
	out.Subscribers = append([]int64(nil), c.Subscribers...)
	if c.Schedule != nil {
		slot := *c.Schedule
		out.Schedule = &slot
	}
	return &out
}

func cloneStudent(s *models.Student) *models.Student {
	out := *s
	out.RegisteredCourses = append([]int64{}, s.RegisteredCourses...)
	out.PrerequisitesStatus = append([]models.PrerequisiteStatus{}, s.PrerequisitesStatus...)
	return &out
}

func (m *memStore) snapshot() (map[int64]*models.Course, map[int64]*models.Student) {
	m.mu.Lock()
	defer m.mu.Unlock()
	courses := make(map[int64]*models.Course, len(m.courses))
	for id, c := range m.courses {
		courses[id] = cloneCourse(c)
	}
	students := make(map[int64]*models.Student, len(m.students))
	for id, s := range m.students {
		students[id] = cloneStudent(s)
	}
	return courses, students
}

func (m *memStore) restore(courses map[int64]*models.Course, students map[int64]*models.Student) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses = courses
	m.students = students
}

// addCourse seeds a course and returns its ID
func (m *memStore) addCourse(c *models.Course) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextCourseID++
	c.ID = m.nextCourseID
	if c.Prerequisites == nil {
		c.Prerequisites = []int64{}
	}
	m.courses[c.ID] = cloneCourse(c)
	return c.ID
}

func (m *memStore) addStudent(s *models.Student) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students[s.ID] = cloneStudent(s)
}

func (m *memStore) course(id int64) *models.Course {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.courses[id]; ok {
		return cloneCourse(c)
	}
	return nil
}

func (m *memStore) student(id int64) *models.Student {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.students[id]; ok {
		return cloneStudent(s)
	}
	return nil
}

func (m *memStore) sortedCourses() []*models.Course {
	out := make([]*models.Course, 0, len(m.courses))
	for _, c := range m.courses {
		out = append(out, cloneCourse(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeCourseRepo struct{ s *memStore }

func (r *fakeCourseRepo) checkUnique(course *models.Course) error {
	for _, c := range r.s.courses {
		if c.ID == course.ID {
			continue
		}
		if c.CourseName == course.CourseName {
			return apperrors.ErrDuplicateCourseName
		}
		if c.CourseCode != nil && course.CourseCode != nil && strings.EqualFold(*c.CourseCode, *course.CourseCode) {
			return apperrors.ErrDuplicateCourseCode
		}
	}
	return nil
}

func (r *fakeCourseRepo) Create(ctx context.Context, course *models.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkUnique(course); err != nil {
		return err
	}
	r.s.nextCourseID++
	course.ID = r.s.nextCourseID
	if course.Prerequisites == nil {
		course.Prerequisites = []int64{}
	}
	r.s.courses[course.ID] = cloneCourse(course)
	return nil
}

func (r *fakeCourseRepo) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	if c := r.s.course(id); c != nil {
		return c, nil
	}
	return nil, apperrors.ErrCourseNotFound
}

func (r *fakeCourseRepo) GetByIDs(ctx context.Context, ids []int64) ([]*models.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*models.Course
	for _, c := range r.s.sortedCourses() {
		if want[c.ID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) GetByNames(ctx context.Context, names []string) ([]*models.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Course
	for _, c := range r.s.sortedCourses() {
		for _, n := range names {
			if c.CourseName == n {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) GetAll(ctx context.Context) ([]*models.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.sortedCourses(), nil
}

func (r *fakeCourseRepo) List(ctx context.Context, limit, offset uint64) ([]*models.Course, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.s.sortedCourses()
	total := int64(len(all))
	if offset >= uint64(len(all)) {
		return nil, total, nil
	}
	end := offset + limit
	if end > uint64(len(all)) {
		end = uint64(len(all))
	}
	return all[offset:end], total, nil
}

func (r *fakeCourseRepo) FindByNameLike(ctx context.Context, fragment string) ([]*models.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Course
	for _, c := range r.s.sortedCourses() {
		if strings.Contains(strings.ToLower(c.CourseName), strings.ToLower(fragment)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) Update(ctx context.Context, course *models.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.courses[course.ID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	if err := r.checkUnique(course); err != nil {
		return err
	}
	stored.CourseCode = course.CourseCode
	stored.CourseName = course.CourseName
	stored.Department = course.Department
	stored.SeatCount = course.SeatCount
	stored.Prerequisites = append([]int64{}, course.Prerequisites...)
	return nil
}

func (r *fakeCourseRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(r.s.courses, id)
	return nil
}

func (r *fakeCourseRepo) DecrementSeat(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courses[id]
	if !ok || c.SeatCount <= 0 {
		return false, nil
	}
	c.SeatCount--
	return true, nil
}

func (r *fakeCourseRepo) IncrementSeat(ctx context.Context, id int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courses[id]
	if !ok {
		return 0, apperrors.ErrCourseNotFound
	}
	c.SeatCount++
	c.Schedule = nil
	return c.SeatCount, nil
}

func (r *fakeCourseRepo) UpdateSchedule(ctx context.Context, id int64, slot *models.ScheduleSlot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courses[id]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	if slot == nil {
		c.Schedule = nil
		return nil
	}
	copied := *slot
	c.Schedule = &copied
	return nil
}

func (r *fakeCourseRepo) AddSubscriber(ctx context.Context, courseID, studentID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courses[courseID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	for _, id := range c.Subscribers {
		if id == studentID {
			return apperrors.ErrAlreadySubscribed
		}
	}
	c.Subscribers = append(c.Subscribers, studentID)
	return nil
}

func (r *fakeCourseRepo) PopSubscribers(ctx context.Context, courseID int64) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courses[courseID]
	if !ok {
		return nil, nil
	}
	subs := c.Subscribers
	c.Subscribers = nil
	return subs, nil
}

func (r *fakeCourseRepo) ListDepartments(ctx context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, c := range r.s.courses {
		if c.Department != "" && !seen[c.Department] {
			seen[c.Department] = true
			out = append(out, c.Department)
		}
	}
	sort.Strings(out)
	return out, nil
}

type fakeStudentRepo struct{ s *memStore }

func (r *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	r.s.addStudent(student)
	return nil
}

func (r *fakeStudentRepo) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	if s := r.s.student(id); s != nil {
		return s, nil
	}
	return nil, apperrors.ErrStudentNotFound
}

func (r *fakeStudentRepo) GetByRollNumber(ctx context.Context, rollNumber string) (*models.Student, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, s := range r.s.students {
		if s.RollNumber == rollNumber {
			return cloneStudent(s), nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (r *fakeStudentRepo) LockForUpdate(ctx context.Context, id int64) error {
	if r.s.student(id) == nil {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

func (r *fakeStudentRepo) AddRegisteredCourse(ctx context.Context, studentID, courseID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failAddRegistered != nil {
		return r.s.failAddRegistered
	}
	s, ok := r.s.students[studentID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	for _, id := range s.RegisteredCourses {
		if id == courseID {
			return nil
		}
	}
	s.RegisteredCourses = append(s.RegisteredCourses, courseID)
	return nil
}

func (r *fakeStudentRepo) RemoveRegisteredCourse(ctx context.Context, studentID, courseID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s, ok := r.s.students[studentID]
	if !ok {
		return false, nil
	}
	for i, id := range s.RegisteredCourses {
		if id == courseID {
			s.RegisteredCourses = append(s.RegisteredCourses[:i], s.RegisteredCourses[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeStudentRepo) CountEnrolled(ctx context.Context, courseIDs []int64) (map[int64]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := make(map[int64]int, len(courseIDs))
	for _, s := range r.s.students {
		for _, id := range s.RegisteredCourses {
			for _, want := range courseIDs {
				if id == want {
					counts[id]++
				}
			}
		}
	}
	return counts, nil
}

func (r *fakeStudentRepo) sortedStudents(keep func(*models.Student) bool) []*models.Student {
	var out []*models.Student
	for _, s := range r.s.students {
		if keep(s) {
			out = append(out, cloneStudent(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeStudentRepo) ListByCourseIDs(ctx context.Context, courseIDs []int64) ([]*models.Student, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.sortedStudents(func(s *models.Student) bool {
		for _, id := range courseIDs {
			if s.IsRegistered(id) {
				return true
			}
		}
		return false
	}), nil
}

func (r *fakeStudentRepo) SetPrerequisiteStatus(ctx context.Context, studentID, courseID int64, status models.PrerequisiteOutcome) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s, ok := r.s.students[studentID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	for i := range s.PrerequisitesStatus {
		if s.PrerequisitesStatus[i].CourseID == courseID {
			s.PrerequisitesStatus[i].Status = status
			return nil
		}
	}
	s.PrerequisitesStatus = append(s.PrerequisitesStatus, models.PrerequisiteStatus{CourseID: courseID, Status: status})
	return nil
}

func (r *fakeStudentRepo) DeletePrerequisiteStatus(ctx context.Context, studentID, courseID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s, ok := r.s.students[studentID]
	if !ok {
		return nil
	}
	kept := s.PrerequisitesStatus[:0]
	for _, ps := range s.PrerequisitesStatus {
		if ps.CourseID != courseID {
			kept = append(kept, ps)
		}
	}
	s.PrerequisitesStatus = kept
	return nil
}

func (r *fakeStudentRepo) ListWithOutstandingPrerequisites(ctx context.Context) ([]*models.Student, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.sortedStudents(func(s *models.Student) bool { return len(s.NotPassed()) > 0 }), nil
}

type fakeAdminRepo struct{ s *memStore }

func (r *fakeAdminRepo) Create(ctx context.Context, admin *models.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.admins[admin.Username] = admin
	return nil
}

func (r *fakeAdminRepo) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.admins[username]; ok {
		return a, nil
	}
	return nil, apperrors.ErrAdminNotFound
}

// fakeTxManager serializes units of work and restores the store on error
type fakeTxManager struct {
	mu sync.Mutex
	s  *memStore
}

func (m *fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos repositories.TxRepositories) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	courses, students := m.s.snapshot()
	err := fn(ctx, repositories.TxRepositories{
		Courses:  &fakeCourseRepo{s: m.s},
		Students: &fakeStudentRepo{s: m.s},
	})
	if err != nil {
		m.s.restore(courses, students)
	}
	return err
}

type recordingNotifications struct {
	mu       sync.Mutex
	releases []SeatRelease
}

func (n *recordingNotifications) AnnounceSeats(ctx context.Context, releases []SeatRelease) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.releases = append(n.releases, releases...)
}

type fixture struct {
	store         *memStore
	courses       *fakeCourseRepo
	students      *fakeStudentRepo
	tx            *fakeTxManager
	notifications *recordingNotifications
	metrics       *metrics.Metrics
}

func newFixture() *fixture {
	store := newMemStore()
	return &fixture{
		store:         store,
		courses:       &fakeCourseRepo{s: store},
		students:      &fakeStudentRepo{s: store},
		tx:            &fakeTxManager{s: store},
		notifications: &recordingNotifications{},
		metrics:       metrics.New(),
	}
}

func (f *fixture) registration() RegistrationService {
	return NewRegistrationService(f.tx, f.courses, f.notifications, f.metrics, testLogger)
}

func (f *fixture) timetable() TimetableService {
	return NewTimetableService(f.tx, f.courses, f.students, f.metrics, testLogger)
}

func (f *fixture) catalog() CourseService {
	return NewCourseService(f.tx, f.courses, f.students, f.notifications, testLogger)
}

func (f *fixture) reports() ReportService {
	return NewReportService(f.courses, f.students, testLogger)
}

func (f *fixture) prerequisites() PrerequisiteService {
	return NewPrerequisiteService(f.courses, f.students, testLogger)
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }
