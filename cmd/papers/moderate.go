package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joseph-ayodele/papers-tracker/constants"
	"github.com/joseph-ayodele/papers-tracker/internal/autofill"
	"github.com/joseph-ayodele/papers-tracker/internal/courses"
	"github.com/joseph-ayodele/papers-tracker/internal/repository"
)

func (a *app) runModerate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("moderate", flag.ExitOnError)
	list := fs.String("list", "", "list papers with this status (unapproved, approved, trashed)")
	approve := fs.Int("approve", 0, "approve paper ID")
	trash := fs.Int("trash", 0, "move paper ID to the trash")
	restore := fs.Int("restore", 0, "move paper ID back to unapproved")
	del := fs.Int("delete", 0, "permanently delete paper ID")
	edit := fs.Int("edit", 0, "edit paper ID using the field flags below")
	code := fs.String("code", "", "new course code (with -edit)")
	name := fs.String("name", "", "new course name (with -edit)")
	year := fs.Int("year", 0, "new year (with -edit)")
	exam := fs.String("exam", "", "new exam (with -edit)")
	sem := fs.String("semester", "", "new semester (with -edit)")
	note := fs.String("note", "", "new note (with -edit)")
	_ = fs.Parse(args)

	papers, closeDB, err := a.openCatalogue(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	switch {
	case *list != "":
		status, ok := constants.ParsePaperStatus(*list)
		if !ok {
			return fmt.Errorf("unknown status %q", *list)
		}
		ps, err := papers.ListByStatus(ctx, status)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCODE\tNAME\tYEAR\tEXAM\tSEM\tUPLOADED\tFILE")
		for _, p := range ps {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n", p.ID, p.CourseCode, p.CourseName,
				p.Year, p.Exam, p.Semester, p.UploadedAt.Format("2006-01-02 15:04"), p.FileLink)
		}
		return tw.Flush()
	case *approve > 0:
		return papers.SetStatus(ctx, *approve, constants.PaperStatusApproved)
	case *trash > 0:
		return papers.SetStatus(ctx, *trash, constants.PaperStatusTrashed)
	case *restore > 0:
		return papers.SetStatus(ctx, *restore, constants.PaperStatusUnapproved)
	case *del > 0:
		return papers.Delete(ctx, *del)
	case *edit > 0:
		table, err := courses.Load(a.cfg.Autofill.CoursesFile, a.logger)
		if err != nil {
			return err
		}
		req, err := editRequest(fs, table, *code, *name, *year, *exam, *sem, *note)
		if err != nil {
			return err
		}
		return papers.Edit(ctx, *edit, req)
	default:
		return errors.New("one of -list, -approve, -trash, -restore, -delete or -edit is required")
	}
}

// editRequest builds an EditRequest from the field flags that were set. A
// course code given alone also sets its course name, and a course name given
// alone also sets its code, when the course table knows them.
func editRequest(fs *flag.FlagSet, table *courses.Table, code, name string, year int, exam, sem, note string) (repository.EditRequest, error) {
	var req repository.EditRequest
	var err error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "code":
			if !autofill.ValidCourseCode(code) {
				err = fmt.Errorf("invalid course code %q", code)
			}
			req.CourseCode = &code
		case "name":
			req.CourseName = &name
		case "year":
			req.Year = &year
		case "exam":
			e := constants.Exam(exam)
			if !autofill.ValidExam(e) {
				err = fmt.Errorf("invalid exam %q", exam)
			}
			req.Exam = &e
		case "semester":
			s, ok := constants.CanonicalizeSemester(sem)
			if !ok {
				err = fmt.Errorf("invalid semester %q", sem)
			}
			req.Semester = &s
		case "note":
			req.Note = &note
		}
	})
	if err != nil {
		return req, err
	}

	switch {
	case req.CourseCode != nil && req.CourseName == nil:
		if n, ok := table.NameFor(*req.CourseCode); ok {
			req.CourseName = &n
		}
	case req.CourseName != nil && req.CourseCode == nil:
		if c, ok := table.CodeFor(*req.CourseName); ok {
			req.CourseCode = &c
		}
	}
	return req, nil
}
