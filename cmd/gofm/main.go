/*
 * main.go, part of gofm.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Command gofm fits coarse-grained force fields to reference trajectories.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/rmera/gofm/config"
	"github.com/rmera/gofm/store"
	"github.com/spf13/cobra"
)

var (
	configFile string
	noPlot     bool
	points     int
	ymin       float64
	ymax       float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "gofm",
		Short:        "force matching for coarse-grained models",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "gofm.yaml", "run configuration (yaml)")
	rootCmd.PersistentFlags().IntVar(&points, "points", 200, "points per curve in tables and plots")

	fitCmd := &cobra.Command{
		Use:   "fit",
		Short: "fit the target forces and save the result",
		Args:  cobra.NoArgs,
		RunE:  runFit,
	}
	fitCmd.Flags().BoolVar(&noPlot, "no-plot", false, "don't plot the fitted curves")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list the runs in the store",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	tableCmd := &cobra.Command{
		Use:   "table [run_id]",
		Short: "write the fitted force tables of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  tableRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the fitted forces and potentials of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().Float64Var(&ymin, "ymin", 0, "lower limit of the y axis")
	plotCmd.Flags().Float64Var(&ymax, "ymax", 0, "upper limit of the y axis")

	rootCmd.AddCommand(fitCmd, listCmd, tableCmd, plotCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runFit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer s.close()
	if err := s.fit(); err != nil {
		return err
	}
	if err := s.writeTables(points); err != nil {
		return err
	}
	if !noPlot {
		if err := s.plot(points, 0, 0); err != nil {
			return err
		}
	}
	if cfg.Store.Kind == "none" {
		return nil
	}
	st, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer store.CloseIfSupported(st)
	run := s.record()
	if err := st.SaveRun(cmd.Context(), run); err != nil {
		return err
	}
	fmt.Printf("run %s: %s fitted forces, %s fitting steps\n", run.ID, humanize.Comma(int64(len(run.Forces))), humanize.Comma(int64(s.matcher.Calls())))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	st, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer store.CloseIfSupported(st)
	ids, err := st.ListRuns(cmd.Context())
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODE\tCREATED\tKT\tFORCES")
	for _, id := range ids {
		run, ok, err := st.GetRun(cmd.Context(), id)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%d\n",
			run.ID,
			run.Mode,
			humanize.Time(run.Created),
			run.KT,
			len(run.Forces),
		)
	}
	return w.Flush()
}

func tableRun(cmd *cobra.Command, args []string) error {
	s, err := storedSession(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.close()
	return s.writeTables(points)
}

func plotRun(cmd *cobra.Command, args []string) error {
	s, err := storedSession(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.close()
	return s.plot(points, ymin, ymax)
}

func openStore(cmd *cobra.Command, cfg *config.Config) (store.Store, error) {
	st, err := store.NewStore(cfg.Store.Kind, cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Init(cmd.Context()); err != nil {
		return nil, err
	}
	return st, nil
}

// storedSession rebuilds the forces of the configuration and loads into them the parameters
// of the stored run id.
func storedSession(cmd *cobra.Command, id string) (*session, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	st, err := openStore(cmd, cfg)
	if err != nil {
		return nil, err
	}
	defer store.CloseIfSupported(st)
	run, ok, err := st.GetRun(cmd.Context(), id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("run %s not found", id)
	}
	s, err := newSession(cfg)
	if err != nil {
		return nil, err
	}
	if err := s.load(run); err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}
