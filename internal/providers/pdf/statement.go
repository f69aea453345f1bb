package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type StatementData struct {
	EstateName string
	Unit       string
	OwnerName  string
	Email      string
	Phone      string
	IssueDate  string

	Lines []StatementLine
	Aging []StatementAging

	Balance string
}

type StatementLine struct {
	Description string
	DueDate     string
	Status      string
	Amount      string
}

type StatementAging struct {
	Label  string
	Amount string
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateStatement(ctx context.Context, data StatementData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(8, "Statement of account", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, data.EstateName, props.Text{
			Size:  10,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	m.AddRow(30,
		col.New(6).Add(
			text.New("Unit "+data.Unit, props.Text{Style: fontstyle.Bold}),
			text.New(data.OwnerName, props.Text{Top: 5}),
			text.New(data.Email, props.Text{Top: 10}),
			text.New(data.Phone, props.Text{Top: 15}),
		),
		col.New(6).Add(
			text.New("Issued: "+data.IssueDate, props.Text{Align: align.Right}),
			text.New("Balance due: "+data.Balance, props.Text{Top: 5, Style: fontstyle.Bold, Align: align.Right}),
		),
	)

	m.AddRow(10,
		text.NewCol(6, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Due date", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Status", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	if len(data.Lines) == 0 {
		m.AddRow(10, text.NewCol(12, "No outstanding charges.", props.Text{Size: 9}))
	}
	for _, line := range data.Lines {
		m.AddRow(8,
			text.NewCol(6, line.Description, props.Text{Size: 9}),
			text.NewCol(2, line.DueDate, props.Text{Size: 9}),
			text.NewCol(2, line.Status, props.Text{Size: 9}),
			text.NewCol(2, line.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(12,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Size: 9, Style: fontstyle.Bold, Top: 4}),
		text.NewCol(2, data.Balance, props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right, Top: 4}),
	)

	if len(data.Aging) > 0 {
		m.AddRow(12, text.NewCol(12, "Aging", props.Text{Size: 10, Style: fontstyle.Bold, Top: 4}))
		for _, bucket := range data.Aging {
			m.AddRow(7,
				text.NewCol(3, bucket.Label+" days", props.Text{Size: 9}),
				text.NewCol(3, bucket.Amount, props.Text{Size: 9, Align: align.Right}),
				col.New(6),
			)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
