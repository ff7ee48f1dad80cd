// Package fillengine composes the Template Introspector, Mutation Planner,
// Widget Writer, Repair Pass, and Burn-In Pass into the single entry point
// the rest of this module calls: open a template, apply a plan, save,
// reconcile, mark, and save again.
package fillengine

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/kilroy-fr/pdfforms/burnin"
	"github.com/kilroy-fr/pdfforms/pdfform"
	"github.com/kilroy-fr/pdfforms/pdfstruct"
	"github.com/kilroy-fr/pdfforms/repair"
	"github.com/kilroy-fr/pdfforms/schema"
)

// Result is the post-condition counter report returned to the caller: the
// engine never aborts a fill because of a single unrecognized field, so
// callers inspect this instead of treating every anomaly as an error.
type Result struct {
	FieldsAttempted int
	FieldsFilled    int
	Skipped         int
	Warnings        []string
	RepairedGroups  []string
	BurnedIn        []string
}

func (r *Result) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Plan is the in-process input to the engine: an ordered list of runtime
// field instances (§6 "Plan contract") plus the form definition needed to
// interpret them and the burn-in whitelist for this form.
type Plan struct {
	FormDef         *schema.FormDefinition
	Instances       []schema.FieldInstance
	BurnInWhitelist []string
}

// Fill applies plan to the template at templatePath and writes the result
// to outputPath. ctx is honored only between the fatal IO steps (open,
// initial save, repair/burn-in save); none of them are individually
// cancellable mid-syscall. If any step fails once staging has begun, the
// file at outputPath is removed, so that path never holds a document that
// has not been through repair and burn-in.
func Fill(ctx context.Context, templatePath, outputPath string, plan Plan) (Result, error) {
	var res Result

	if err := ctx.Err(); err != nil {
		return res, err
	}
	done := false
	defer func() {
		if !done {
			os.Remove(outputPath)
		}
	}()
	if err := copyFile(templatePath, outputPath); err != nil {
		return res, fmt.Errorf("staging output: %w", err)
	}

	mutationPlan := pdfform.BuildPlan(plan.FormDef, plan.Instances)
	res.Warnings = append(res.Warnings, mutationPlan.Warnings...)

	if err := withOpenPDF(outputPath, func(pdf *pdfstruct.PDF) error {
		applyPlan(pdf, mutationPlan, &res)
		setNeedAppearancesFalse(pdf)
		return pdf.Write()
	}); err != nil {
		return res, fmt.Errorf("initial save: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	if err := withOpenPDF(outputPath, func(pdf *pdfstruct.PDF) error {
		repairResult, err := repair.Run(pdf)
		if err != nil {
			return err
		}
		res.RepairedGroups = repairResult.Present
		res.Warnings = append(res.Warnings, repairResult.Warnings...)

		burnResult, err := burnin.Run(pdf, plan.BurnInWhitelist)
		if err != nil {
			return err
		}
		res.BurnedIn = burnResult.Marked
		return pdf.Write()
	}); err != nil {
		return res, fmt.Errorf("repair/burn-in save: %w", err)
	}

	done = true
	return res, nil
}

func applyPlan(pdf *pdfstruct.PDF, plan pdfform.Plan, res *Result) {
	for name, value := range plan.TextMap {
		res.FieldsAttempted++
		if err := pdfform.SetTextField(pdf, name, value); err != nil {
			res.Skipped++
			res.warn("text field %q: %v", name, err)
			continue
		}
		res.FieldsFilled++
	}
	for name, on := range plan.CheckboxMap {
		res.FieldsAttempted++
		if !on {
			continue
		}
		if err := pdfform.SetCheckboxField(pdf, name, true); err != nil {
			res.Skipped++
			res.warn("checkbox %q: %v", name, err)
			continue
		}
		res.FieldsFilled++
	}
	for group, pdfState := range plan.RadioMap {
		res.FieldsAttempted++
		order := schema.KnownRadioGroupOrder[group]
		if err := pdfform.SetRadioField(pdf, group, pdfState, order); err != nil {
			res.Skipped++
			res.warn("radio group %q: %v", group, err)
			continue
		}
		res.FieldsFilled++
	}
}

func setNeedAppearancesFalse(pdf *pdfstruct.PDF) {
	formRef, ok := pdf.Catalog["AcroForm"].(pdfstruct.Reference)
	if !ok {
		return
	}
	form, err := pdf.GetDict(formRef)
	if err != nil {
		return
	}
	form["NeedAppearances"] = false
	pdf.UpdateObject(formRef, form)
}

// withOpenPDF opens path read-write, hands the parsed document to fn, and
// always closes the file afterward. A fresh pdfstruct.Open per pass keeps
// the object graph (and its offset table) consistent with what the
// previous pass actually wrote.
func withOpenPDF(path string, fn func(*pdfstruct.PDF) error) error {
	fh, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return err
	}
	defer fh.Close()
	pdf, err := pdfstruct.Open(fh)
	if err != nil {
		return err
	}
	return fn(pdf)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
