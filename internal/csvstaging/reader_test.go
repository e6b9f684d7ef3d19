package csvstaging_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loganpetree/homesellphotography/internal/csvstaging"
	"github.com/loganpetree/homesellphotography/internal/domain"
	"github.com/loganpetree/homesellphotography/internal/mocks"
)

const fullHeader = "Site ID,Order ID,Order Status,Invoice Date,Order Total,Site Type,Site URL,Site Created,Address,Address 2,City,State,Zip Code,MLS Number,Longitude,Latitude,Agent Name,First Name,Last Name,Email,Phone,Website,Group\n"

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
		validate    func(*testing.T, []domain.CSVRow)
	}{
		{
			name: "all columns",
			input: fullHeader +
				`12345,O-1,Paid,2023-04-01,249.50,Premium,https://homesellphotography.hd.pics/12345,2023-03-30,"12 Main St, Unit 4",Unit 4,Boise,ID,83702,MLS77,-116.2,43.6,Jane Agent,Jane,Agent,jane@example.com,555-0100,https://jane.example.com,Acme Realty` + "\n",
			validate: func(t *testing.T, rows []domain.CSVRow) {
				require.Len(t, rows, 1)
				r := rows[0]
				assert.Equal(t, "12345", r.SiteID)
				assert.Equal(t, "249.50", r.OrderTotal)
				assert.Equal(t, "12 Main St, Unit 4", r.Address)
				assert.Equal(t, "83702", r.ZipCode)
				assert.Equal(t, "-116.2", r.Longitude)
				assert.Equal(t, "Acme Realty", r.Group)
			},
		},
		{
			name:  "reordered and missing columns",
			input: "City,Site ID,Unknown\nBoise,  77 ,x\n",
			validate: func(t *testing.T, rows []domain.CSVRow) {
				require.Len(t, rows, 1)
				assert.Equal(t, "77", rows[0].SiteID)
				assert.Equal(t, "Boise", rows[0].City)
				assert.Empty(t, rows[0].OrderTotal)
				assert.Empty(t, rows[0].Latitude)
			},
		},
		{
			name:  "byte order mark and blank lines",
			input: "\ufeffSite ID,Order ID\n1,a\n\n,\n2,b\n",
			validate: func(t *testing.T, rows []domain.CSVRow) {
				require.Len(t, rows, 2)
				assert.Equal(t, "1", rows[0].SiteID)
				assert.Equal(t, "2", rows[1].SiteID)
			},
		},
		{
			name:  "short rows keep empty site id",
			input: "Order ID,Site ID\nonly-order\n",
			validate: func(t *testing.T, rows []domain.CSVRow) {
				require.Len(t, rows, 1)
				assert.Empty(t, rows[0].SiteID)
				assert.Equal(t, "only-order", rows[0].OrderID)
			},
		},
		{
			name:        "missing site id column",
			input:       "Order ID,City\n1,Boise\n",
			expectError: true,
		},
		{
			name:        "empty input",
			input:       "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := csvstaging.Parse(strings.NewReader(tt.input))
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrFatalInput))
				return
			}
			require.NoError(t, err)
			tt.validate(t, rows)
		})
	}
}

func TestReadFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fs := mocks.NewMockFileSystem(ctrl)

	t.Run("reads file", func(t *testing.T) {
		fs.EXPECT().Open("sites.csv").Return(io.NopCloser(strings.NewReader("Site ID\n9\n")), nil)

		rows, err := csvstaging.ReadFile(fs, "sites.csv")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "9", rows[0].SiteID)
	})

	t.Run("unreadable file is fatal", func(t *testing.T) {
		fs.EXPECT().Open("missing.csv").Return(nil, errors.New("no such file"))

		_, err := csvstaging.ReadFile(fs, "missing.csv")
		assert.True(t, errors.Is(err, domain.ErrFatalInput))
	})
}
